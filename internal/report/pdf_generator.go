package report

import (
	"bytes"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/user/b1500a_analyzer_go/internal/analysis"
	"github.com/user/b1500a_analyzer_go/internal/parser"
)

const (
	inchToMm               = 25.4
	pdfPageWidthLandscape  = 11 * inchToMm // Letter landscape
	pdfPageHeightLandscape = 8.5 * inchToMm
	pdfMargin              = 0.5 * inchToMm
	pdfContentWidth        = pdfPageWidthLandscape - (2 * pdfMargin)
)

// Plot keys understood by BuildPDFReport.
const (
	PlotCombined = "combined"
	PlotHeatmap  = "heatmap"
)

// ReportData is everything the PDF shows about one batch.
type ReportData struct {
	RunID       string
	GeneratedAt time.Time
	Variant     analysis.Variant
	Models      []*analysis.SweepModel
	Summary     analysis.SummaryTable
	Failures    []analysis.FileError
	Aggregate   *analysis.AggregateCurve
	PlotImages  map[string][]byte // PlotCombined, PlotHeatmap, or a sweep's FileName
}

// pdfStyler holds reusable styling and state for PDF generation
type pdfStyler struct {
	pdf         *gofpdf.Fpdf
	styles      map[string]func()
	lineHeight  float64
	currentY    float64 // manually tracked Y position for flowing content
	pageHeight  float64
	contentTopY float64
}

func newPDFStyler(pdf *gofpdf.Fpdf) *pdfStyler {
	s := &pdfStyler{
		pdf:         pdf,
		styles:      make(map[string]func()),
		lineHeight:  6,
		pageHeight:  pdfPageHeightLandscape - pdfMargin,
		contentTopY: pdfMargin,
	}
	s.currentY = s.contentTopY
	s.defineStyles()
	return s
}

func (s *pdfStyler) defineStyles() {
	s.styles["h1"] = func() {
		s.pdf.SetFont("Arial", "B", 16)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["h2"] = func() {
		s.pdf.SetFont("Arial", "B", 14)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["normal"] = func() {
		s.pdf.SetFont("Arial", "", 10)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableHeader"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetFillColor(200, 200, 200)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCell"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(50, 50, 50)
	}
	s.styles["tableCellBold"] = func() {
		s.pdf.SetFont("Arial", "B", 9)
		s.pdf.SetTextColor(0, 0, 0)
	}
	s.styles["tableCellRed"] = func() {
		s.pdf.SetFont("Arial", "", 9)
		s.pdf.SetTextColor(200, 0, 0)
	}
}

func (s *pdfStyler) applyStyle(styleName string) {
	if fn, ok := s.styles[styleName]; ok {
		fn()
	} else {
		s.styles["normal"]()
	}
}

func (s *pdfStyler) newPage() {
	s.pdf.AddPage()
	s.currentY = s.contentTopY
}

func (s *pdfStyler) checkAddPage(neededHeight float64) {
	if s.currentY+neededHeight > s.pageHeight {
		s.newPage()
	}
}

func (s *pdfStyler) writeParagraph(text string, styleName string, align string) {
	s.applyStyle(styleName)
	lines := s.pdf.SplitLines([]byte(text), pdfContentWidth)
	s.checkAddPage(math.Max(1, float64(len(lines))) * s.lineHeight)

	s.pdf.SetXY(pdfMargin, s.currentY)
	s.pdf.MultiCell(pdfContentWidth, s.lineHeight, text, "", align, false)
	s.currentY = s.pdf.GetY() + 1
}

func (s *pdfStyler) addSpacer(height float64) {
	s.checkAddPage(height)
	s.currentY += height
}

// writeTable draws a bordered table; style picks the style for each cell.
func (s *pdfStyler) writeTable(headers []string, widthsRel []float64, rows [][]string, style func(row, col int) string) {
	widths := make([]float64, len(widthsRel))
	for i, rel := range widthsRel {
		widths[i] = rel * pdfContentWidth
	}

	drawHeader := func() {
		s.applyStyle("tableHeader")
		x := pdfMargin
		for i, h := range headers {
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[i], s.lineHeight, h, "1", 0, "C", true, 0, "")
			x += widths[i]
		}
		s.currentY += s.lineHeight
	}

	s.checkAddPage(2 * s.lineHeight)
	drawHeader()
	for r, row := range rows {
		if s.currentY+s.lineHeight > s.pageHeight {
			s.newPage()
			drawHeader()
		}
		x := pdfMargin
		for c, cell := range row {
			s.applyStyle(style(r, c))
			s.pdf.SetXY(x, s.currentY)
			s.pdf.CellFormat(widths[c], s.lineHeight, cell, "1", 0, "C", false, 0, "")
			x += widths[c]
		}
		s.currentY += s.lineHeight
	}
}

func (s *pdfStyler) addImage(imageBytes []byte, imageName string, width float64, height float64, caption string) {
	s.pdf.RegisterImageReader(imageName, "PNG", bytes.NewReader(imageBytes))

	if width > pdfContentWidth {
		ratio := pdfContentWidth / width
		width = pdfContentWidth
		height *= ratio
	}

	captionHeight := 0.0
	if caption != "" {
		captionHeight = s.lineHeight + 1
	}
	s.checkAddPage(height + captionHeight)

	s.pdf.Image(imageName, pdfMargin+(pdfContentWidth-width)/2, s.currentY, width, height, false, "PNG", 0, "")
	s.currentY += height

	if caption != "" {
		s.addSpacer(1)
		s.writeParagraph(caption, "normal", "C")
	}
	s.addSpacer(2)
}

// BuildPDFReport writes a landscape report of the batch: run details, the
// summary table, failed files, the aggregate fit and any rendered plots.
func BuildPDFReport(filepath string, data ReportData) error {
	spec, ok := data.Variant.Spec()
	if !ok {
		return fmt.Errorf("%w: %v", analysis.ErrUnknownVariant, data.Variant)
	}
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}

	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	styler := newPDFStyler(pdf)
	styler.newPage()

	styler.writeParagraph(fmt.Sprintf("B1500A %s Sweep Report (%d files)", sweepTitle(data.Variant), len(data.Models)), "h1", "C")
	styler.addSpacer(3)
	styler.writeParagraph(fmt.Sprintf("Run ID: %s", data.RunID), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Generated: %s", data.GeneratedAt.Format(time.RFC1123)), "normal", "L")
	styler.writeParagraph(fmt.Sprintf("Fit degree: %d", spec.FitDegree), "normal", "L")
	styler.addSpacer(5)

	styler.writeParagraph("Summary", "h2", "L")
	if len(data.Summary.Rows) > 0 {
		rows := make([][]string, len(data.Summary.Rows))
		for i, r := range data.Summary.Rows {
			rows[i] = []string{r.Test, strconv.FormatFloat(r.Value, 'g', 6, 64)}
		}
		last := len(rows) - 1
		styler.writeTable(
			[]string{data.Summary.Header[0], data.Summary.Header[1]},
			[]float64{0.7, 0.3},
			rows,
			func(row, _ int) string {
				if row == last {
					return "tableCellBold"
				}
				return "tableCell"
			})
	} else {
		styler.writeParagraph("No sweeps could be analyzed.", "normal", "L")
	}
	styler.addSpacer(5)

	if len(data.Models) > 0 {
		styler.writeParagraph("Sweeps", "h2", "L")
		rows := make([][]string, len(data.Models))
		for i, m := range data.Models {
			rows[i] = []string{
				parser.Value(m.Metadata.TestName),
				parser.Value(m.Metadata.DeviceName),
				parser.Value(m.Metadata.RunNumber),
				parser.Value(m.Metadata.Date) + " " + parser.Value(m.Metadata.Time),
				strconv.Itoa(len(m.Volts)),
				formatCoefficients(m.Coefficients),
			}
		}
		styler.writeTable(
			[]string{"Test", "Device", "Run", "Date/Time", "Samples", "Fit coefficients"},
			[]float64{0.2, 0.1, 0.06, 0.2, 0.08, 0.36},
			rows,
			func(int, int) string { return "tableCell" })
		styler.addSpacer(5)
	}

	if len(data.Failures) > 0 {
		styler.writeParagraph(fmt.Sprintf("Files Not Analyzed (%d)", len(data.Failures)), "h2", "L")
		rows := make([][]string, len(data.Failures))
		for i, f := range data.Failures {
			rows[i] = []string{f.Path, f.Err.Error()}
		}
		styler.writeTable([]string{"File", "Error"}, []float64{0.4, 0.6}, rows,
			func(_, col int) string {
				if col == 1 {
					return "tableCellRed"
				}
				return "tableCell"
			})
		styler.addSpacer(5)
	}

	if data.Aggregate != nil {
		styler.writeParagraph("Aggregate Fit", "h2", "L")
		styler.writeParagraph(fmt.Sprintf("Mean current refit with degree %d: %s",
			spec.FitDegree, formatCoefficients(data.Aggregate.Coefficients)), "normal", "L")
		styler.addSpacer(5)
	}

	imgWidth := pdfContentWidth * 0.8
	if img, ok := data.PlotImages[PlotCombined]; ok && len(img) > 0 {
		styler.newPage()
		styler.writeParagraph("Graphical Analysis", "h1", "C")
		styler.addSpacer(3)
		styler.addImage(img, PlotCombined, imgWidth, imgWidth*(500.0/800.0), "All sweeps with aggregate fit")
	}
	if img, ok := data.PlotImages[PlotHeatmap]; ok && len(img) > 0 {
		styler.newPage()
		h := 120 + 30*float64(len(data.Models))
		styler.addImage(img, PlotHeatmap, imgWidth, imgWidth*(h/800.0), "Current by sample index")
	}
	for _, m := range data.Models {
		img, ok := data.PlotImages[m.FileName]
		if !ok || len(img) == 0 {
			continue
		}
		w := pdfContentWidth * 0.6
		styler.addImage(img, "sweep_"+m.FileName, w, w*(400.0/600.0), m.FileName)
	}

	if err := pdf.OutputFileAndClose(filepath); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	slog.Info("Wrote PDF report", slog.String("path", filepath), slog.String("run_id", data.RunID))
	return nil
}

func formatCoefficients(coeffs []float64) string {
	out := ""
	for i, c := range coeffs {
		if i > 0 {
			out += ", "
		}
		out += strconv.FormatFloat(c, 'g', 6, 64)
	}
	return "[" + out + "]"
}
