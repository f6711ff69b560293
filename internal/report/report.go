// Package report formats jump analysis results for display and renders the
// downloadable PDF. It never recomputes anything: every number comes from a
// kinematics.Result.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/eleven-am/jump-backend/internal/kinematics"
	"github.com/go-pdf/fpdf"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	Title      = "Jump analysis report (flight time)"
	DateLayout = "02/01/2006"
)

type Document struct {
	GeneratedAt  time.Time
	Name         string
	HeightCM     int
	WeightKg     int
	TakeoffIndex int
	LandingIndex int
	Result       kinematics.Result
}

type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func (l Line) String() string {
	return l.Label + " : " + l.Value
}

// Summary holds the on-screen strings. Precision matches the PDF.
type Summary struct {
	FlightTime string `json:"flight_time"`
	JumpHeight string `json:"jump_height"`
	AvgForce   string `json:"avg_force"`
	AvgPower   string `json:"avg_power"`
}

func Display(r kinematics.Result) Summary {
	return Summary{
		FlightTime: fmt.Sprintf("%.3f s", r.FlightTime),
		JumpHeight: fmt.Sprintf("%.1f cm", r.JumpHeightCM),
		AvgForce:   fmt.Sprintf("%.1f N", r.AvgForceN),
		AvgPower:   fmt.Sprintf("%.1f W", r.AvgPowerW),
	}
}

func Lines(doc Document) []Line {
	s := Display(doc.Result)
	return []Line{
		{Label: "Date", Value: doc.GeneratedAt.Format(DateLayout)},
		{Label: "Name", Value: doc.Name},
		{Label: "Height", Value: strconv.Itoa(doc.HeightCM) + " cm"},
		{Label: "Weight", Value: strconv.Itoa(doc.WeightKg) + " kg"},
		{Label: "Take-off frame", Value: strconv.Itoa(doc.TakeoffIndex)},
		{Label: "Landing frame", Value: strconv.Itoa(doc.LandingIndex)},
		{Label: "Flight time", Value: s.FlightTime},
		{Label: "Jump height", Value: s.JumpHeight},
		{Label: "Average force", Value: s.AvgForce},
		{Label: "Average power", Value: s.AvgPower},
	}
}

type Renderer struct {
	compress bool
}

func NewRenderer(compress bool) *Renderer {
	return &Renderer{compress: compress}
}

func (r *Renderer) Render(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetCreationDate(doc.GeneratedAt)
	pdf.SetTitle(Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, Title, "", 1, "", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	for _, line := range Lines(doc) {
		pdf.CellFormat(0, 10, tr(coreFontText(line.String())), "", 1, "", false, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// coreFontText composes s and drops the accents of characters outside Latin-1 so
// the core fonts can show them.
func coreFontText(s string) string {
	s = norm.NFC.String(s)

	var b strings.Builder
	for _, r := range s {
		if r <= unicode.MaxLatin1 {
			b.WriteRune(r)
			continue
		}
		folded, _, err := transform.String(stripMarks(), string(r))
		if err != nil {
			folded = string(r)
		}
		b.WriteString(folded)
	}
	return b.String()
}

// FileName derives an ASCII download name such as "Alex_jump.pdf".
func FileName(name string) string {
	stripped, _, err := transform.String(stripMarks(), strings.TrimSpace(name))
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	for _, r := range stripped {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('_')
		}
	}

	base := strings.Trim(b.String(), "_")
	if base == "" {
		return "jump.pdf"
	}
	return base + "_jump.pdf"
}
