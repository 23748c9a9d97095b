// Package extract converts uploaded documents into plain text.
package extract

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/codeloom-ai/codeloom-engine/pkg/apperrors"
)

// pdfMagic is the four-byte signature every PDF starts with.
var pdfMagic = []byte("%PDF")

// Result holds the extracted text and page count of a document.
type Result struct {
	Text      string
	PageCount int
}

// Extractor converts uploaded document bytes into plain text.
type Extractor interface {
	// Extract validates the buffer, then returns the text of every
	// page in order, pages separated by a newline.
	Extract(content []byte) (*Result, error)
}

type pdfExtractor struct {
	maxSizeBytes int64
	logger       *zap.Logger
}

// NewExtractor creates a PDF extractor that rejects buffers larger
// than maxSizeBytes before any parsing happens.
func NewExtractor(maxSizeBytes int64, logger *zap.Logger) Extractor {
	return &pdfExtractor{
		maxSizeBytes: maxSizeBytes,
		logger:       logger.Named("extract"),
	}
}

var _ Extractor = (*pdfExtractor)(nil)

func (e *pdfExtractor) Extract(content []byte) (*Result, error) {
	// Size check comes before the signature check so oversized
	// buffers never reach the parser.
	if int64(len(content)) > e.maxSizeBytes {
		return nil, fmt.Errorf("document is %d bytes, limit is %d: %w", len(content), e.maxSizeBytes, apperrors.ErrTooLarge)
	}
	if !bytes.HasPrefix(content, pdfMagic) {
		return nil, fmt.Errorf("missing %%PDF signature: %w", apperrors.ErrInvalidFormat)
	}

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 0; i < numPages; i++ {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i+1, err)
		}
		buf.WriteString(text)
		if i < numPages-1 {
			buf.WriteByte('\n')
		}
	}

	e.logger.Debug("document extracted",
		zap.Int("pages", numPages),
		zap.Int("size_bytes", len(content)),
		zap.Int("text_len", buf.Len()))

	return &Result{Text: buf.String(), PageCount: numPages}, nil
}
