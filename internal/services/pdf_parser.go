package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ledongthuc/pdf"

	"alfredoptarigan/hiring-pipeline/internal/logger"
)

type PDFParserService interface {
	ExtractText(filepath string) (string, error)
	ExtractTextWithMetaData(filepath string) (*PDFContent, error)
}

type PDFContent struct {
	Text      string
	PageCount int
	FilePath  string
}

type pdfParserService struct{}

func NewPDFParserService() PDFParserService {
	return &pdfParserService{}
}

func (p *pdfParserService) ExtractText(filePath string) (string, error) {
	content, err := p.extract(filePath, false)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

// ExtractTextWithMetaData prefixes every page with a page marker.
func (p *pdfParserService) ExtractTextWithMetaData(filePath string) (*PDFContent, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, errors.Newf("file does not exist: %s", filePath)
	}
	return p.extract(filePath, true)
}

func (p *pdfParserService) extract(filePath string, markPages bool) (*PDFContent, error) {
	f, r, err := pdf.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open PDF")
	}
	defer f.Close()

	var sb strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warnf("⚠️ Skipping page %d of %s: %v", pageIndex, filePath, err)
			continue
		}

		if markPages {
			sb.WriteString(fmt.Sprintf("--- Page %d ---\n", pageIndex))
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("no text content found in PDF")
	}

	return &PDFContent{
		Text:      text,
		PageCount: totalPage,
		FilePath:  filePath,
	}, nil
}

// CleanText trims every line and drops blank ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
