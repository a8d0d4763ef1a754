package planning

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/TCDevop/otb-planning/internal/domain"
	"github.com/TCDevop/otb-planning/internal/pkg/constants"
)

var hundred = decimal.NewFromInt(100)

// Session — рабочая копия планирования одной бюджетной строки: живой
// черновик плюс append-only список замороженных версий. Владеет сессией
// один открытый экран, разделяемого состояния между экранами нет.
type Session struct {
	draft    *domain.PlanningDraft
	versions []*domain.PlanningVersion
	selected string
	loadedAt time.Time
}

func NewSession(draft *domain.PlanningDraft, versions []*domain.PlanningVersion) *Session {
	s := &Session{
		draft:    draft,
		versions: versions,
		selected: domain.SelectionDraft,
		loadedAt: draft.UpdatedAt,
	}

	sort.Slice(s.versions, func(i, j int) bool {
		return s.versions[i].VersionNumber < s.versions[j].VersionNumber
	})

	// протухший selected_version из хранилища откатываем на draft
	s.SelectVersion(draft.SelectedVersion)

	return s
}

func (s *Session) Draft() *domain.PlanningDraft {
	return s.draft
}

// LoadedAt — updated_at черновика на момент загрузки, для guard'а от
// параллельной правки при сохранении.
func (s *Session) LoadedAt() time.Time {
	return s.loadedAt
}

func (s *Session) Versions() []*domain.PlanningVersion {
	return s.versions
}

func (s *Session) Version(id string) (*domain.PlanningVersion, bool) {
	for _, v := range s.versions {
		if v.ID == id {
			return v, true
		}
	}
	return nil, false
}

func (s *Session) Selected() string {
	return s.selected
}

// Editable — изменяемым бывает только черновик.
func (s *Session) Editable() bool {
	return s.selected == domain.SelectionDraft
}

// SelectVersion переключает источник чтения, данные не трогает.
// Неизвестный id откатывается на draft, а не падает.
func (s *Session) SelectVersion(idOrDraft string) {
	if idOrDraft == domain.SelectionDraft || idOrDraft == "" {
		s.selected = domain.SelectionDraft
		s.draft.SelectedVersion = domain.SelectionDraft
		return
	}

	if _, ok := s.Version(idOrDraft); !ok {
		s.selected = domain.SelectionDraft
		s.draft.SelectedVersion = domain.SelectionDraft
		return
	}

	s.selected = idOrDraft
	s.draft.SelectedVersion = idOrDraft
}

// Cell читает метрики из активного источника (черновик или данные
// выбранной версии). Отсутствующий ключ — штатная ситуация при узких
// фильтрах, возвращается нулевое значение.
func (s *Session) Cell(key string) domain.CellMetrics {
	if s.Editable() {
		if cell, ok := s.draft.Cells[key]; ok {
			return *cell
		}
		return domain.CellMetrics{}
	}

	version, ok := s.Version(s.selected)
	if !ok {
		return domain.CellMetrics{}
	}
	return version.Data[key]
}

// SetProposed меняет предлагаемую долю закупки и в той же операции
// пересчитывает OtbProposed и VarPct. Против замороженной версии —
// молчаливый no-op: UI не должен давать такую возможность, но стор
// обязан отбить мутацию и сам.
func (s *Session) SetProposed(key string, value float64) {
	if !s.Editable() {
		return
	}

	cell, ok := s.draft.Cells[key]
	if !ok {
		cell = &domain.CellMetrics{}
		s.draft.Cells[key] = cell
	}

	cell.BuyProposed = value
	cell.OtbProposed = s.draft.LineBudget.Mul(decimal.NewFromFloat(value)).Div(hundred)
	cell.VarPct = value - cell.SalesPct

	s.draft.UpdatedAt = time.Now()
}

// SeedCell кладёт в черновик референсные значения ячейки (данные
// прошлого сезона, системная доля) и пересчитывает производные поля.
func (s *Session) SeedCell(key string, cell domain.CellMetrics) {
	if !s.Editable() {
		return
	}

	seeded := cell
	s.draft.Cells[key] = &seeded
	s.SetProposed(key, seeded.BuyProposed)
}

func (s *Session) SetComment(comment string) {
	if !s.Editable() {
		return
	}

	s.draft.Comment = comment
	s.draft.UpdatedAt = time.Now()
}

// Approve — единственный способ создать версию: глубокая копия карты
// ячеек черновика, плотная нумерация с единицы, level-1 стартует в
// pending, level-2 в waiting. Новая версия сразу становится выбранной.
func (s *Session) Approve(roster domain.ApproverRoster, createdBy string) (*domain.PlanningVersion, error) {
	if roster.Empty() {
		return nil, fmt.Errorf("approve planning %s: %w", s.draft.BudgetDetailID, constants.ErrEmptyRoster)
	}

	number := 0
	for _, v := range s.versions {
		if v.VersionNumber > number {
			number = v.VersionNumber
		}
	}

	// без level-1 в ростере level-2 нечего ждать, стартует сразу в pending
	level2Status := domain.ApprovalStatusWaiting
	if len(roster.Level1) == 0 {
		level2Status = domain.ApprovalStatusPending
	}

	version := &domain.PlanningVersion{
		ID:             uuid.NewString(),
		BudgetDetailID: s.draft.BudgetDetailID,
		VersionNumber:  number + 1,
		CreatedAt:      time.Now(),
		CreatedBy:      createdBy,
		Data:           cloneCells(s.draft.Cells),
		Comment:        s.draft.Comment,
		Status:         domain.VersionStatusPendingReview,
		Approvals: domain.ApprovalSet{
			Level1: seedEntries(roster.Level1, domain.ApprovalStatusPending),
			Level2: seedEntries(roster.Level2, level2Status),
		},
	}

	s.versions = append(s.versions, version)
	s.SelectVersion(version.ID)

	return version, nil
}

// cloneCells — явная покомпонентная копия вместо json-раундтрипа, чтобы
// новые поля модели не терялись молча.
func cloneCells(cells map[string]*domain.CellMetrics) map[string]domain.CellMetrics {
	cloned := make(map[string]domain.CellMetrics, len(cells))
	for key, cell := range cells {
		cloned[key] = *cell
	}
	return cloned
}

func seedEntries(approverIDs []string, status domain.ApprovalStatus) []*domain.ApprovalEntry {
	entries := make([]*domain.ApprovalEntry, 0, len(approverIDs))
	for _, id := range approverIDs {
		entries = append(entries, &domain.ApprovalEntry{
			ID:         uuid.NewString(),
			ApproverID: id,
			Status:     status,
		})
	}
	return entries
}
