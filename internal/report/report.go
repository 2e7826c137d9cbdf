package report

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/medical-agent/internal/domain"
	"github.com/Rrens/medical-agent/internal/specialist"
	"github.com/rs/zerolog/log"
	"github.com/signintech/gopdf"
)

// ErrReportUnavailable means no configured font could be loaded
var ErrReportUnavailable = errors.New("report rendering unavailable: no usable font")

const (
	fontFamily   = "ReportSans"
	marginLeft   = 50.0
	textWidth    = 495.0
	pageBottom   = 790.0
	bodyLeading  = 14.0
	headingSize  = 20
	sectionSize  = 14
	bodySize     = 11
	footnoteSize = 9
)

// Renderer builds a printable consultation report
type Renderer struct {
	fontPaths []string
	dir       *specialist.Directory
	now       func() time.Time
}

func NewRenderer(fontPaths []string, dir *specialist.Directory) *Renderer {
	return &Renderer{fontPaths: fontPaths, dir: dir, now: time.Now}
}

// Render returns the PDF bytes for a completed session
func (r *Renderer) Render(session *domain.Session) ([]byte, error) {
	if session.Status != domain.StatusCompleted {
		return nil, domain.ErrSessionNotCompleted
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := r.loadFont(pdf); err != nil {
		return nil, err
	}

	w := &writer{pdf: pdf}

	w.font(headingSize)
	w.line("Consultation Report")
	pdf.Br(10)

	w.font(bodySize)
	w.line(fmt.Sprintf("Session: #%d", session.ID))
	w.line(fmt.Sprintf("Date: %s", session.UpdatedAt.Format("02 Jan 2006 15:04")))
	w.line(fmt.Sprintf("Specialist: %s", r.specialistName(session)))
	pdf.Br(10)

	w.section("Symptoms")
	w.paragraph(session.Symptoms)

	w.section("Summary")
	summary := "No summary available."
	if session.Summary != nil && strings.TrimSpace(*session.Summary) != "" {
		summary = *session.Summary
	}
	w.paragraph(stripMarkdown(summary))

	if len(session.Transcript) > 0 {
		w.section("Transcript")
		for _, entry := range session.Transcript {
			speaker := "Patient"
			if entry.Role == domain.RoleAssistant {
				speaker = "Doctor"
			}
			w.paragraph(speaker + ": " + entry.Content)
		}
	}

	pdf.Br(10)
	w.font(footnoteSize)
	w.line(fmt.Sprintf("Generated %s. This report is AI-assisted and not a diagnosis.", r.now().Format("02 Jan 2006 15:04")))

	if w.err != nil {
		return nil, fmt.Errorf("failed to render report: %w", w.err)
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) loadFont(pdf *gopdf.GoPdf) error {
	var lastErr error
	for _, path := range r.fontPaths {
		if err := pdf.AddTTFFont(fontFamily, path); err != nil {
			lastErr = err
			continue
		}
		log.Debug().Str("path", path).Msg("report font loaded")
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("%w: %v", ErrReportUnavailable, lastErr)
	}
	return ErrReportUnavailable
}

func (r *Renderer) specialistName(session *domain.Session) string {
	if session.SelectedSpecialistID == nil {
		return "Not selected"
	}
	if s, ok := r.dir.Get(*session.SelectedSpecialistID); ok {
		return s.Name
	}
	return fmt.Sprintf("Specialist #%d", *session.SelectedSpecialistID)
}

// writer keeps the first error and breaks pages before the bottom margin
type writer struct {
	pdf  *gopdf.GoPdf
	size int
	err  error
}

func (w *writer) font(size int) {
	if w.err != nil {
		return
	}
	w.size = size
	w.err = w.pdf.SetFont(fontFamily, "", size)
}

func (w *writer) line(text string) {
	if w.err != nil {
		return
	}
	if w.pdf.GetY() > pageBottom {
		w.pdf.AddPage()
		w.font(w.size)
	}
	w.pdf.SetX(marginLeft)
	if err := w.pdf.Cell(nil, text); err != nil {
		w.err = err
		return
	}
	w.pdf.Br(float64(w.size) + 4)
}

func (w *writer) section(title string) {
	w.pdf.Br(6)
	w.font(sectionSize)
	w.line(title)
	w.font(bodySize)
}

func (w *writer) paragraph(text string) {
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, " \t\r")
		if raw == "" {
			w.pdf.Br(bodyLeading / 2)
			continue
		}
		lines, err := w.pdf.SplitText(raw, textWidth)
		if err != nil || len(lines) == 0 {
			lines = []string{raw}
		}
		for _, l := range lines {
			w.line(l)
		}
	}
}

func stripMarkdown(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return s
}
