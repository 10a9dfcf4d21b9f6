package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mbolis/pie-reports/layout"
	"github.com/mbolis/pie-reports/log"
	"github.com/mbolis/pie-reports/model"
	"github.com/mbolis/pie-reports/render"
	"github.com/mbolis/pie-reports/stats"
)

// TrailingMargin is the minimum space kept free above the footer band.
const TrailingMargin = 10.0

// Composer turns already fetched data into finished documents. It holds
// configuration only: every call builds its own surface and cursor, so one
// Composer may serve concurrent callers.
type Composer struct {
	Organization string
	Prices       PriceLookup
	// Locale (BCP 47) and Currency (ISO 4217) drive number and money
	// formatting; empty values mean pt-BR and BRL.
	Locale   string
	Currency string
	// Now defaults to time.Now.
	Now func() time.Time
	// NewSurface defaults to a PDF backend.
	NewSurface func(render.Meta) render.Surface
}

func (cp *Composer) now() time.Time {
	if cp.Now != nil {
		return cp.Now()
	}
	return time.Now()
}

func (cp *Composer) numbers() (numbers, error) {
	return newNumbers(cp.Locale, cp.Currency)
}

func (cp *Composer) surface(meta render.Meta) render.Surface {
	if cp.NewSurface != nil {
		return cp.NewSurface(meta)
	}
	return render.NewPDFCanvas(meta)
}

// build is the state of one composition.
type build struct {
	id       string
	at       time.Time
	canvas   render.Surface
	cursor   *layout.Cursor
	x, width float64
}

// step is one entry of a report pipeline.
type step func(b *build)

func place(blk render.Block) step {
	return func(b *build) {
		render.Place(b.canvas, b.cursor, b.x, b.width, blk)
	}
}

func space(h float64) step {
	return func(b *build) { b.cursor.Skip(h) }
}

// together places blocks on the same page whenever they fit on one. The
// last block may flow onward; only the room for its first rows is asked
// for by the keep.
func together(blocks ...render.Block) step {
	return func(b *build) {
		var h float64
		for i, blk := range blocks {
			bh := blk.Height(b.canvas, b.width)
			if _, ok := blk.(render.Flow); ok && i == len(blocks)-1 {
				bh = min(bh, 2*render.RowHeight)
			}
			h += bh
		}
		if !b.cursor.Fits(h) && !b.cursor.AtTop() {
			b.cursor.BreakPage()
		}
		for _, blk := range blocks {
			render.Place(b.canvas, b.cursor, b.x, b.width, blk)
		}
	}
}

// compose runs steps between the page header and the footers and returns
// the finished bytes.
func (cp *Composer) compose(meta render.Meta, header render.Header, steps []step) (*build, []byte, error) {
	b := &build{id: uuid.NewString(), at: cp.now()}
	meta.Author = cp.Organization
	meta.Keywords = strings.TrimSpace(meta.Keywords + " " + b.id)
	header.Organization = cp.Organization

	b.canvas = cp.surface(meta)
	w, h := b.canvas.PageSize()
	b.x, b.width = render.SideMargin, w-2*render.SideMargin

	b.canvas.AddPage()
	render.DrawHeader(b.canvas, header)
	b.cursor = layout.NewCursor(layout.Geometry{
		Width:  w,
		Height: h,
		Top:    render.HeaderBand + 10,
		Footer: render.FooterBand,
		Margin: TrailingMargin,
	}, func(int) {
		b.canvas.AddPage()
		render.DrawHeader(b.canvas, header)
	})

	for _, s := range steps {
		s(b)
	}

	render.StampFooters(b.canvas, render.Footer{
		Left:  "Gerado em " + b.at.Format(dateTimeLayout),
		Right: "Doc " + b.id[:8],
	})
	if err := b.canvas.Err(); err != nil {
		return nil, nil, fmt.Errorf("render %s: %w", meta.Subject, err)
	}
	data, err := b.canvas.Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("finalize %s: %w", meta.Subject, err)
	}
	log.WithFields(log.Fields{
		"doc":    b.id,
		"pages":  b.canvas.PageCount(),
		"breaks": b.cursor.Breaks(),
	}).Debugf("report.composed: %s", meta.Subject)
	return b, data, nil
}

func (cp *Composer) document(kind string, variant Variant, code string, b *build, data []byte) *Document {
	return &Document{
		ID:       b.id,
		Filename: Filename(kind, variant, code, b.at),
		Kind:     kind,
		Variant:  variant,
		Pages:    b.canvas.PageCount(),
		data:     data,
	}
}

// Individual renders the full detail of one inspection: its identification,
// every section with its checklist and the signature lines.
func (cp *Composer) Individual(inst *model.Instance) (*Document, error) {
	if err := model.Validate(inst); err != nil {
		return nil, err
	}
	nums, err := cp.numbers()
	if err != nil {
		return nil, err
	}
	sum := stats.Instance(inst)

	steps := []step{
		place(instanceCard(inst)),
		space(4),
		place(render.KPIRow{Cards: summaryKPIs(nums, sum)}),
		space(6),
	}
	for _, sec := range inst.Sections {
		steps = append(steps, sectionSteps(nums, sec)...)
	}
	steps = append(steps,
		space(6),
		place(render.Signature{Labels: []string{
			"Responsável: " + orNotSpecified(inst.Responsible),
			"Data: ____/____/________",
		}}),
	)

	b, data, err := cp.compose(render.Meta{
		Title:    "Relatório Individual " + inst.Code,
		Subject:  InspectionKind + " " + string(Individual),
		Keywords: inst.Code,
	}, render.Header{
		Title:    "Relatório Individual de Inspeção",
		Subtitle: joinNonEmpty(" · ", inst.Code, inst.Title),
	}, steps)
	if err != nil {
		return nil, err
	}
	return cp.document(InspectionKind, Individual, inst.Code, b, data), nil
}

func instanceCard(inst *model.Instance) render.InfoCard {
	return render.InfoCard{
		Title: "Identificação",
		Fields: []render.Field{
			{Label: "Código", Value: inst.Code},
			{Label: "Título", Value: inst.Title},
			{Label: "Status", Value: render.StatusLabel(string(inst.Status))},
			{Label: "Prioridade", Value: priorityLabel(inst.Priority)},
			{Label: "Data planejada", Value: formatDate(inst.PlannedDate)},
			{Label: "Responsável", Value: inst.Responsible},
			{Label: "Zona", Value: inst.Zone},
		},
	}
}

func sectionSteps(nums numbers, sec model.Section) []step {
	sum := stats.Section(sec)
	head := []render.Block{
		render.Heading{Text: joinNonEmpty(" · ", sec.Code, sec.Name)},
	}
	if strings.TrimSpace(sec.Description) != "" {
		head = append(head, render.Paragraph{Text: sec.Description, Size: render.BodySize - 1, Color: render.TextMuted, MaxLines: 3})
	}
	head = append(head, render.ProgressBar{
		Label:   fmt.Sprintf("%d de %d pontos respondidos", sum.AnsweredPoints, sum.TotalPoints),
		Percent: sum.CompletionPercent,
	})

	if len(sec.Points) == 0 {
		head = append(head, render.Paragraph{Text: "Nenhum ponto de inspeção cadastrado.", Size: render.SmallSize, Color: render.TextMuted})
		return []step{together(head...), space(4)}
	}

	markers := stats.Indicators(sec)
	items := make([]render.Block, len(sec.Points))
	for i, p := range sec.Points {
		items[i] = checklistItem(nums, p, markers[i])
	}
	steps := []step{together(append(head, items[0])...)}
	for _, it := range items[1:] {
		steps = append(steps, place(it))
	}
	return append(steps, space(4))
}

func checklistItem(nums numbers, p model.Point, marker stats.Indicator) render.ChecklistItem {
	it := render.ChecklistItem{
		Marker:   indicatorKey(marker),
		Title:    joinNonEmpty(" ", p.Code, p.Title),
		Required: p.Required,
	}
	if r := p.Response; r != nil {
		it.Verdict, it.VerdictKey = verdict(r.Conformity)
		it.Answer = nums.value(r.Value)
		it.Observations = r.Observations
		it.Responsible = r.Responsible
	}
	return it
}

func summaryKPIs(nums numbers, sum stats.Summary) []render.KPI {
	completion := model.KeyPending
	switch {
	case sum.TotalPoints > 0 && sum.CompletionPercent >= 100:
		completion = model.KeyCompleted
	case sum.CompletionPercent > 0:
		completion = model.KeyInProgress
	}
	return []render.KPI{
		{Value: nums.count(sum.TotalPoints), Label: "Pontos", Status: model.KeyOpen},
		{Value: nums.count(sum.AnsweredPoints), Label: "Respondidos", Status: model.KeyInReview},
		{Value: nums.count(sum.ConformingPoints), Label: "Conformes", Status: model.KeyConforming},
		{Value: nums.count(sum.NonConformingPoints), Label: "Não conformes", Status: model.KeyNonConforming},
		{Value: fmt.Sprintf("%d%%", sum.CompletionPercent), Label: "Conclusão", Status: completion},
	}
}

// Executive renders the aggregate picture of one inspection.
func (cp *Composer) Executive(inst *model.Instance) (*Document, error) {
	if err := model.Validate(inst); err != nil {
		return nil, err
	}
	nums, err := cp.numbers()
	if err != nil {
		return nil, err
	}
	sum := stats.Instance(inst)

	table := render.Table{
		Columns: []render.Column{
			{Title: "Seção", Width: 60},
			{Title: "Pontos", Width: 18, Align: "R"},
			{Title: "Respondidos", Width: 24, Align: "R"},
			{Title: "Conformes", Width: 22, Align: "R"},
			{Title: "Não conf.", Width: 20, Align: "R"},
			{Title: "N/A", Width: 14, Align: "R"},
			{Title: "Conclusão", Width: 22, Align: "R"},
		},
		Empty: "Nenhuma seção cadastrada",
	}
	for _, s := range stats.BySection(inst) {
		table.Rows = append(table.Rows, []string{
			joinNonEmpty(" · ", s.Code, s.Name),
			nums.count(s.Summary.TotalPoints),
			nums.count(s.Summary.AnsweredPoints),
			nums.count(s.Summary.ConformingPoints),
			nums.count(s.Summary.NonConformingPoints),
			nums.count(s.Summary.NotApplicablePoints),
			fmt.Sprintf("%d%%", s.Summary.CompletionPercent),
		})
	}

	steps := []step{
		place(render.KPIRow{Cards: summaryKPIs(nums, sum)}),
		space(6),
		place(render.ProgressBar{Label: "Conclusão geral", Percent: sum.CompletionPercent}),
		space(4),
		together(render.Heading{Text: "Resumo por seção"}, table),
	}
	if owners := responsibleBySection(inst); len(owners) > 0 {
		steps = append(steps,
			space(6),
			together(render.Heading{Text: "Responsáveis por seção"}, render.Bullets{Items: owners[:1]}),
			place(render.Bullets{Items: owners[1:]}),
		)
	}

	b, data, err := cp.compose(render.Meta{
		Title:    "Relatório Executivo " + inst.Code,
		Subject:  InspectionKind + " " + string(Executive),
		Keywords: inst.Code,
	}, render.Header{
		Title:    "Relatório Executivo de Inspeção",
		Subtitle: joinNonEmpty(" · ", inst.Code, inst.Title),
	}, steps)
	if err != nil {
		return nil, err
	}
	return cp.document(InspectionKind, Executive, "", b, data), nil
}

// responsibleBySection lists, per section, the distinct people who answered
// its points.
func responsibleBySection(inst *model.Instance) []string {
	var out []string
	for _, sec := range inst.Sections {
		seen := map[string]bool{}
		var names []string
		for _, p := range sec.Points {
			if p.Response == nil {
				continue
			}
			name := strings.TrimSpace(p.Response.Responsible)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
		if len(names) == 0 {
			continue
		}
		sort.Strings(names)
		out = append(out, fmt.Sprintf("%s: %s", joinNonEmpty(" · ", sec.Code, sec.Name), strings.Join(names, ", ")))
	}
	return out
}

// Filtered renders the records matching a filter together with the list of
// filters that produced them.
func (cp *Composer) Filtered(kind model.RecordKind, records []model.Record, filters model.Predicates) (*Document, error) {
	spec, ok := kinds[kind]
	if !ok {
		return nil, &UnsupportedKindError{Requested: string(kind)}
	}
	nums, err := cp.numbers()
	if err != nil {
		return nil, err
	}

	var applied render.Block = render.Paragraph{Text: "Nenhum filtro aplicado", Size: render.BodySize - 1, Color: render.TextMuted}
	if active := filters.Active(); len(active) > 0 {
		items := make([]string, len(active))
		for i, p := range active {
			value := p.Value
			if d, ok := p.Bound(); ok {
				value = formatDate(&d)
			}
			items[i] = spec.label(p.Field) + ": " + value
		}
		applied = render.Bullets{Items: items}
	}

	table := render.Table{Empty: "Nenhum registro encontrado"}
	for _, col := range spec.columns {
		table.Columns = append(table.Columns, col.Column)
	}
	priced := spec.priced && hasPrices(cp.Prices)
	if priced {
		table.Columns = append(table.Columns, render.Column{Title: "Valor Total", Width: 28, Align: "R"})
	}
	var total float64
	for _, r := range records {
		row := make([]string, 0, len(table.Columns))
		for _, col := range spec.columns {
			row = append(row, spec.cell(nums, col, r))
		}
		if priced {
			v, ok := materialValue(cp.Prices, r)
			if ok {
				total += v
				row = append(row, nums.amount(v))
			} else {
				row = append(row, "-")
			}
		}
		table.Rows = append(table.Rows, row)
	}

	steps := []step{
		together(render.Heading{Text: "Filtros aplicados"}, applied),
		space(4),
		place(render.Paragraph{
			Text: fmt.Sprintf("%s registro(s) encontrado(s)", nums.count(len(records))),
			Size: render.BodySize, Bold: true, Color: render.TextDark,
		}),
		space(2),
		place(table),
	}
	if priced && len(records) > 0 {
		steps = append(steps,
			space(4),
			place(render.Paragraph{
				Text: "Valor total estimado: " + nums.amount(total),
				Size: render.BodySize, Bold: true, Color: render.TextDark,
			}),
		)
	}

	b, data, err := cp.compose(render.Meta{
		Title:   spec.title,
		Subject: string(kind) + " " + string(Filtered),
	}, render.Header{
		Title:    spec.title,
		Subtitle: "Relatório filtrado",
	}, steps)
	if err != nil {
		return nil, err
	}
	return cp.document(string(kind), Filtered, "", b, data), nil
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
