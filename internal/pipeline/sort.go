package pipeline

import (
	"sort"

	"alfredoptarigan/hiring-pipeline/internal/models"
)

// statusPriority ranks statuses inside a bucket; candidates waiting on a
// recruiter decision come first. Unlisted statuses sort last.
var statusPriority = map[string]int{
	models.StatusForAIInterviewReview:    0,
	models.StatusForHumanInterviewReview: 0,
	models.StatusForCVScreening:          1,
	models.StatusForInterview:            2,
	models.StatusForAIInterview:          2,
	models.StatusForHumanInterview:       2,
	models.StatusOffered:                 3,
	models.StatusAccepted:                4,
}

const lowestPriority = 100

func priorityOf(status string) int {
	if p, ok := statusPriority[status]; ok {
		return p
	}
	return lowestPriority
}

// ranksBefore orders by (status priority, last activity desc, id desc), the
// same order the interview list query uses.
func ranksBefore(a, b *models.Interview) bool {
	pa, pb := priorityOf(a.Status), priorityOf(b.Status)
	if pa != pb {
		return pa < pb
	}
	ta, tb := a.LastActivityAt(), b.LastActivityAt()
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return a.ID.String() > b.ID.String()
}

// SortInterviews sorts a bucket in place, stably.
func SortInterviews(list []models.Interview) {
	sort.SliceStable(list, func(i, j int) bool {
		return ranksBefore(&list[i], &list[j])
	})
}

// insertionIndex is the position iv takes in an already sorted list, after
// any entries that rank equal to it.
func insertionIndex(list []models.Interview, iv *models.Interview) int {
	return sort.Search(len(list), func(i int) bool {
		return ranksBefore(iv, &list[i])
	})
}
