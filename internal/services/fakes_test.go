package services

import (
	"context"
	"io"
	"mime/multipart"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"alfredoptarigan/hiring-pipeline/internal/models"
	"alfredoptarigan/hiring-pipeline/internal/pipeline"
	"alfredoptarigan/hiring-pipeline/internal/repositories"
)

var errNotFound = errors.Mark(errors.New("not found"), repositories.ErrNotFound)

// fakeInterviewRepo keeps interviews in memory and records call order.
type fakeInterviewRepo struct {
	mu         sync.Mutex
	interviews map[uuid.UUID]models.Interview
	records    []models.TransactionRecord
	calls      []string
	mutateErr  error
	resetErr   error
}

func newFakeInterviewRepo(ivs ...models.Interview) *fakeInterviewRepo {
	r := &fakeInterviewRepo{interviews: map[uuid.UUID]models.Interview{}}
	for _, iv := range ivs {
		r.interviews[iv.ID] = iv
	}
	return r
}

func (r *fakeInterviewRepo) Create(iv *models.Interview) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "create")
	r.interviews[iv.ID] = *iv
	return nil
}

func (r *fakeInterviewRepo) FindByID(id uuid.UUID) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	iv, ok := r.interviews[id]
	if !ok {
		return nil, errNotFound
	}
	return &iv, nil
}

func (r *fakeInterviewRepo) FindByEmailAndCareer(email string, careerID uuid.UUID) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, iv := range r.interviews {
		if iv.CareerID == careerID && iv.CandidateEmail == email {
			return &iv, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeInterviewRepo) ListByCareer(careerID uuid.UUID) ([]models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Interview
	for _, iv := range r.interviews {
		if iv.CareerID == careerID {
			out = append(out, iv)
		}
	}
	return out, nil
}

func (r *fakeInterviewRepo) ApplyMutation(id uuid.UUID, patch pipeline.FieldPatch, record *models.TransactionRecord) (*models.Interview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "mutate")
	if r.mutateErr != nil {
		return nil, r.mutateErr
	}
	iv, ok := r.interviews[id]
	if !ok {
		return nil, errNotFound
	}
	iv = patch.ApplyTo(iv)
	r.interviews[id] = iv
	if record != nil {
		r.records = append(r.records, *record)
	}
	return &iv, nil
}

func (r *fakeInterviewRepo) ResetInterviewData(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "reset")
	return r.resetErr
}

func (r *fakeInterviewRepo) History(id uuid.UUID) ([]models.TransactionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TransactionRecord
	for _, rec := range r.records {
		if rec.InterviewID == id {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeInterviewRepo) HistoryByCareer(careerID uuid.UUID) ([]models.TransactionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.TransactionRecord(nil), r.records...), nil
}

type fakeCareerRepo struct {
	careers map[uuid.UUID]models.Career
}

func (r *fakeCareerRepo) Create(c *models.Career) error {
	r.careers[c.ID] = *c
	return nil
}

func (r *fakeCareerRepo) FindByID(id uuid.UUID) (*models.Career, error) {
	c, ok := r.careers[id]
	if !ok {
		return nil, errNotFound
	}
	return &c, nil
}

func (r *fakeCareerRepo) List() ([]models.Career, error) {
	var out []models.Career
	for _, c := range r.careers {
		out = append(out, c)
	}
	return out, nil
}

type fakeDocumentRepo struct {
	docs map[uuid.UUID]models.Document
}

func (r *fakeDocumentRepo) Create(d *models.Document) error {
	r.docs[d.ID] = *d
	return nil
}

func (r *fakeDocumentRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	d, ok := r.docs[id]
	if !ok {
		return nil, errNotFound
	}
	return &d, nil
}

func (r *fakeDocumentRepo) FindByIDs(ids []uuid.UUID) ([]models.Document, error) {
	var out []models.Document
	for _, id := range ids {
		if d, ok := r.docs[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeScreeningRepo struct {
	mu         sync.Mutex
	screenings map[uuid.UUID]models.Screening
	results    map[uuid.UUID]repositories.ScreeningUpdateData
	errs       map[uuid.UUID]string
}

func newFakeScreeningRepo() *fakeScreeningRepo {
	return &fakeScreeningRepo{
		screenings: map[uuid.UUID]models.Screening{},
		results:    map[uuid.UUID]repositories.ScreeningUpdateData{},
		errs:       map[uuid.UUID]string{},
	}
}

func (r *fakeScreeningRepo) Create(s *models.Screening) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screenings[s.ID] = *s
	return nil
}

func (r *fakeScreeningRepo) FindByID(id uuid.UUID) (*models.Screening, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.screenings[id]
	if !ok {
		return nil, errNotFound
	}
	return &s, nil
}

func (r *fakeScreeningRepo) UpdateStatus(id uuid.UUID, status models.ScreeningStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.screenings[id]
	if !ok {
		return errNotFound
	}
	s.Status = status
	r.screenings[id] = s
	return nil
}

func (r *fakeScreeningRepo) UpdateResult(id uuid.UUID, data *repositories.ScreeningUpdateData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.screenings[id]
	s.Status = models.ScreeningCompleted
	rate := data.MatchRate
	s.MatchRate = &rate
	r.screenings[id] = s
	r.results[id] = *data
	return nil
}

func (r *fakeScreeningRepo) UpdateError(id uuid.UUID, msg string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.screenings[id]
	s.Status = models.ScreeningFailed
	s.ErrorMessage = &msg
	r.screenings[id] = s
	r.errs[id] = msg
	return nil
}

func (r *fakeScreeningRepo) FindPendingJobs(limit int) ([]models.Screening, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Screening
	for _, s := range r.screenings {
		if s.Status == models.ScreeningQueued && len(out) < limit {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeStorage struct {
	saved   []string
	deleted []string
}

func (s *fakeStorage) SaveFile(file *multipart.FileHeader, fileType string) (string, string, error) {
	name := fileType + "_" + file.Filename
	s.saved = append(s.saved, name)
	return name, "/uploads/" + name, nil
}

func (s *fakeStorage) SaveReader(r io.Reader, originalName, fileType string) (string, string, error) {
	name := fileType + "_" + originalName
	s.saved = append(s.saved, name)
	return name, "/uploads/" + name, nil
}

func (s *fakeStorage) GetFilePath(filename string) string { return "/uploads/" + filename }

func (s *fakeStorage) DeleteFile(filename string) error {
	s.deleted = append(s.deleted, filename)
	return nil
}

func (s *fakeStorage) EnsureUploadDir() error { return nil }

type fakeQueue struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (q *fakeQueue) EnqueueJob(id uuid.UUID) {
	q.mu.Lock()
	q.ids = append(q.ids, id)
	q.mu.Unlock()
}

type fakeGemini struct {
	response string
	err      error
	prompts  []string
}

func (g *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func (g *fakeGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.response, g.err
}

func (g *fakeGemini) GenerateTextWithRetry(ctx context.Context, prompt string, temperature float32, maxRetries int) (string, error) {
	return g.GenerateText(ctx, prompt, temperature)
}

type fakeQdrant struct {
	chunks  []ChunkPoint
	results []SearchResult
	filter  string
}

func (q *fakeQdrant) InitCollection(ctx context.Context) error { return nil }

func (q *fakeQdrant) UpsertChunk(ctx context.Context, chunk ChunkPoint) error {
	q.chunks = append(q.chunks, chunk)
	return nil
}

func (q *fakeQdrant) SearchSimilar(ctx context.Context, embedding []float32, careerID string, limit int) ([]SearchResult, error) {
	q.filter = careerID
	return q.results, nil
}

func (q *fakeQdrant) DeleteDocument(ctx context.Context, docID string) error { return nil }

type fakePDF struct {
	text string
	err  error
}

func (p *fakePDF) ExtractText(path string) (string, error) { return p.text, p.err }

func (p *fakePDF) ExtractTextWithMetaData(path string) (*PDFContent, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &PDFContent{Text: p.text, PageCount: 1, FilePath: path}, nil
}
