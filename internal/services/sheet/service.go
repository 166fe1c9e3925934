package sheet

//go:generate mockgen -destination=mock/mock_service.go -package=mocksheet -source=service.go

import (
	"context"
	"strconv"
	"strings"

	"github.com/yui-dot/apollyon-sheet/internal/catalog"
	apperr "github.com/yui-dot/apollyon-sheet/internal/errors"
	"github.com/yui-dot/apollyon-sheet/internal/events"
	"github.com/yui-dot/apollyon-sheet/internal/export"
	"github.com/yui-dot/apollyon-sheet/internal/repositories/sheets"
	"github.com/yui-dot/apollyon-sheet/internal/rules"
	"github.com/yui-dot/apollyon-sheet/internal/sheet"
	"github.com/yui-dot/apollyon-sheet/internal/uuid"
)

// Repository is an alias for the sheet repository interface
type Repository = sheets.Repository

// SheetOutput bundles a sheet with its current selection conflicts. Every
// mutating call returns it so callers always render from fresh state.
type SheetOutput struct {
	Sheet     *sheet.Sheet
	Conflicts *rules.Conflicts
}

// Service defines the sheet service interface
type Service interface {
	// CreateSheet creates a new blank sheet
	CreateSheet(ctx context.Context) (*SheetOutput, error)

	// GetSheet retrieves a sheet by ID
	GetSheet(ctx context.Context, sheetID string) (*SheetOutput, error)

	// ListSheets lists all stored sheets
	ListSheets(ctx context.Context) ([]*sheet.Sheet, error)

	// DeleteSheet removes a sheet
	DeleteSheet(ctx context.Context, sheetID string) error

	// UpdateIdentity updates name, level, exp and race fields
	UpdateIdentity(ctx context.Context, sheetID string, input *IdentityInput) (*SheetOutput, error)

	// SetCoreAttribute writes one editable field of a core attribute
	SetCoreAttribute(ctx context.Context, sheetID string, input *CoreAttributeInput) (*SheetOutput, error)

	// SetDerivedAttribute writes one editable field of a calculated attribute
	SetDerivedAttribute(ctx context.Context, sheetID string, input *DerivedAttributeInput) (*SheetOutput, error)

	// SetMoteCategory assigns a mote category to a slot, resetting its rows
	SetMoteCategory(ctx context.Context, sheetID string, slot int, category string) (*SheetOutput, error)

	// AddAbilityRow appends an ability row to a mote slot
	AddAbilityRow(ctx context.Context, sheetID string, slot int) (*SheetOutput, error)

	// RemoveAbilityRow removes an ability row; removing the last row is a no-op
	RemoveAbilityRow(ctx context.Context, sheetID string, slot, row int) (*SheetOutput, error)

	// SelectAbility picks an ability for a row within a mote slot
	SelectAbility(ctx context.Context, sheetID string, slot, row int, name string) (*SheetOutput, error)

	// ToggleAbilityDetail flips a row between short and detailed description
	ToggleAbilityDetail(ctx context.Context, sheetID string, slot, row int) (*SheetOutput, error)

	// AddItem appends a blank entry to a collection
	AddItem(ctx context.Context, sheetID string, kind sheet.Kind) (*SheetOutput, error)

	// UpdateItem edits fields of a collection entry
	UpdateItem(ctx context.Context, sheetID string, kind sheet.Kind, itemID string, input *ItemInput) (*SheetOutput, error)

	// RemoveItem deletes a collection entry; deleting the last one is a no-op
	RemoveItem(ctx context.Context, sheetID string, kind sheet.Kind, itemID string) (*SheetOutput, error)

	// SetMasteryValue sets the free-form mastery value field
	SetMasteryValue(ctx context.Context, sheetID string, value string) (*SheetOutput, error)

	// Export serializes a sheet into its portable payload
	Export(ctx context.Context, sheetID string) (string, error)

	// Import replaces a sheet's state from a payload. A payload that fails to
	// parse leaves the stored sheet untouched.
	Import(ctx context.Context, sheetID string, payload string) (*SheetOutput, error)
}

// IdentityInput contains the header fields; nil pointers leave the field as is
type IdentityInput struct {
	Name  *string
	Level *string
	Exp   *string
	Race  *string
}

// CoreAttributeInput addresses one editable cell of the core table. Value
// arrives as the raw form text; unreadable text counts as zero.
type CoreAttributeInput struct {
	Name  string
	Field sheet.CoreField
	Value string
}

// DerivedAttributeInput addresses one editable cell of the calculated table.
// Field accepts base, mod, temp, mult and extra.
type DerivedAttributeInput struct {
	Name  string
	Field string
	Value string
}

// ItemInput contains collection entry fields; nil pointers leave the field as is
type ItemInput struct {
	Name   *string
	Desc   *string
	Cost   *string
	Item   *string
	Effect *string
}

// service implements the Service interface
type service struct {
	repository    Repository
	catalog       *catalog.Catalog
	eventBus      *events.Bus
	uuidGenerator uuid.Generator
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository    Repository       // Required
	Catalog       *catalog.Catalog // Required
	EventBus      *events.Bus      // Optional, events are dropped if nil
	UUIDGenerator uuid.Generator   // Optional, will use default if nil
}

// NewService creates a new sheet service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}
	if cfg.Catalog == nil {
		panic("catalog is required")
	}

	svc := &service{
		repository: cfg.Repository,
		catalog:    cfg.Catalog,
		eventBus:   cfg.EventBus,
	}

	if cfg.UUIDGenerator != nil {
		svc.uuidGenerator = cfg.UUIDGenerator
	} else {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}

	return svc
}

// CreateSheet creates a new blank sheet
func (s *service) CreateSheet(ctx context.Context) (*SheetOutput, error) {
	sh := sheet.New(s.uuidGenerator.New(), s.uuidGenerator.New)

	if err := s.repository.Create(ctx, sh); err != nil {
		return nil, apperr.Wrap(err, "failed to create sheet").
			WithMeta("sheet_id", sh.ID)
	}

	out := s.output(sh)
	s.publish(events.SheetCreated, out)
	return out, nil
}

// GetSheet retrieves a sheet by ID
func (s *service) GetSheet(ctx context.Context, sheetID string) (*SheetOutput, error) {
	sh, err := s.get(ctx, sheetID)
	if err != nil {
		return nil, err
	}
	return s.output(sh), nil
}

// ListSheets lists all stored sheets
func (s *service) ListSheets(ctx context.Context) ([]*sheet.Sheet, error) {
	return s.repository.List(ctx)
}

// DeleteSheet removes a sheet
func (s *service) DeleteSheet(ctx context.Context, sheetID string) error {
	if strings.TrimSpace(sheetID) == "" {
		return apperr.InvalidArgument("sheet ID is required")
	}
	if err := s.repository.Delete(ctx, sheetID); err != nil {
		return apperr.Wrap(err, "failed to delete sheet").
			WithMeta("sheet_id", sheetID)
	}
	s.publish(events.SheetDeleted, &SheetOutput{Sheet: &sheet.Sheet{ID: sheetID}})
	return nil
}

// UpdateIdentity updates name, level, exp and race fields
func (s *service) UpdateIdentity(ctx context.Context, sheetID string, input *IdentityInput) (*SheetOutput, error) {
	if input == nil {
		return nil, apperr.InvalidArgument("input cannot be nil")
	}
	return s.mutate(ctx, sheetID, func(sh *sheet.Sheet) error {
		if input.Name != nil {
			sh.Name = *input.Name
		}
		if input.Level != nil {
			sh.Level = *input.Level
		}
		if input.Exp != nil {
			sh.Exp = *input.Exp
		}
		if input.Race != nil {
			sh.Race = *input.Race
		}
		return nil
	})
}

// SetCoreAttribute writes one editable field of a core attribute
func (s *service) SetCoreAttribute(ctx context.Context, sheetID string, input *CoreAttributeInput) (*SheetOutput, error) {
	if input == nil {
		return nil, apperr.InvalidArgument("input cannot be nil")
	}
	return s.mutate(ctx, sheetID, func(sh *sheet.Sheet) error {
		return sh.SetCore(input.Name, input.Field, parseInt(input.Value))
	})
}

// SetDerivedAttribute writes one editable field of a calculated attribute
func (s *service) SetDerivedAttribute(ctx context.Context, sheetID string, input *DerivedAttributeInput) (*SheetOutput, error) {
	if input == nil {
		return nil, apperr.InvalidArgument("input cannot be nil")
	}
	return s.mutate(ctx, sheetID, func(sh *sheet.Sheet) error {
		switch input.Field {
		case string(sheet.CalcFieldBase), string(sheet.CalcFieldModifier), string(sheet.CalcFieldTemporary):
			return sh.SetCalc(input.Name, sheet.CalcField(input.Field), parseInt(input.Value))
		case "mult":
			return sh.SetMultiplier(input.Name, parseMultiplier(input.Value))
		case "extra":
			return sh.SetExtra(input.Name, input.Value)
		default:
			return apperr.InvalidArgumentf("unknown calculated attribute field '%s'", input.Field)
		}
	})
}

// SetMoteCategory assigns a mote category to a slot, resetting its rows
func (s *service) SetMoteCategory(ctx context.Context, sheetID string, slot int, category string) (*SheetOutput, error) {
	if !s.catalog.HasCategory(category) {
		return nil, apperr.InvalidArgumentf("unknown mote category '%s'", category)
	}
	return s.mutate(ctx, sheetID, func(sh *sheet.Sheet) error {
		ms, err := sh.Slot(slot)
		if err != nil {
			return err
		}
		ms.SetCategory(s.catalog, category)
		return nil
	})
}

// AddAbilityRow appends an ability row to a mote slot
func (s *service) AddAbilityRow(ctx context.Context, sheetID string, slot int) (*SheetOutput, error) {
	return s.mutate(ctx, sheetID, func(sh *sheet.Sheet) error {
		ms, err := sh.Slot(slot)
		if err != nil {
			return err
		}
		ms.AddRow(s.catalog)
		return nil
	})
}

// RemoveAbilityRow removes an ability row; removing the last row is a no-op
func (s *service) RemoveAbilityRow(ctx context.Context, sheetID string, slot, row int) (*SheetOutput, error) {
	return s.mutate(ctx, sheetID, func(sh *sheet.Sheet) error {
		ms, err := sh.Slot(slot)
		if err != nil {
			return err
		}
		ms.RemoveRow(row)
		return nil
	})
}

// SelectAbility picks an ability for a row within a mote slot
func (s *service) SelectAbility(ctx context.Context, sheetID string, slot, row int, name string) (*SheetOutput, error) {
	return s.mutate(ctx, sheetID, func(sh *sheet.Sheet) error {
		ms, err := sh.Slot(slot)
		if err != nil {
			return err
		}
		return ms.SelectAbility(s.catalog, row, name)
	})
}

// ToggleAbilityDetail flips a row between short and detailed description
func (s *service) ToggleAbilityDetail(ctx context.Context, sheetID string, slot, row int) (*SheetOutput, error) {
	return s.mutate(ctx, sheetID, func(sh *sheet.Sheet) error {
		ms, err := sh.Slot(slot)
		if err != nil {
			return err
		}
		return ms.ToggleDetail(row)
	})
}

// AddItem appends a blank entry to a collection
func (s *service) AddItem(ctx context.Context, sheetID string, kind sheet.Kind) (*SheetOutput, error) {
	return s.mutate(ctx, sheetID, func(sh *sheet.Sheet) error {
		c, err := sh.Collection(kind)
		if err != nil {
			return err
		}
		c.Add(s.uuidGenerator.New())
		return nil
	})
}

// UpdateItem edits fields of a collection entry
func (s *service) UpdateItem(ctx context.Context, sheetID string, kind sheet.Kind, itemID string, input *ItemInput) (*SheetOutput, error) {
	if input == nil {
		return nil, apperr.InvalidArgument("input cannot be nil")
	}
	return s.mutate(ctx, sheetID, func(sh *sheet.Sheet) error {
		c, err := sh.Collection(kind)
		if err != nil {
			return err
		}
		item := c.Find(itemID)
		if item == nil {
			return apperr.NotFoundf("item '%s' not found in %s", itemID, kind)
		}
		if input.Name != nil {
			item.Name = *input.Name
		}
		if input.Desc != nil {
			item.Desc = *input.Desc
		}
		if input.Cost != nil {
			item.Cost = *input.Cost
		}
		if input.Item != nil {
			item.Item = *input.Item
		}
		if input.Effect != nil {
			item.Effect = *input.Effect
		}
		return nil
	})
}

// RemoveItem deletes a collection entry; deleting the last one is a no-op
func (s *service) RemoveItem(ctx context.Context, sheetID string, kind sheet.Kind, itemID string) (*SheetOutput, error) {
	return s.mutate(ctx, sheetID, func(sh *sheet.Sheet) error {
		c, err := sh.Collection(kind)
		if err != nil {
			return err
		}
		c.Remove(itemID)
		return nil
	})
}

// SetMasteryValue sets the free-form mastery value field
func (s *service) SetMasteryValue(ctx context.Context, sheetID string, value string) (*SheetOutput, error) {
	return s.mutate(ctx, sheetID, func(sh *sheet.Sheet) error {
		sh.MasteryValue = value
		return nil
	})
}

// Export serializes a sheet into its portable payload
func (s *service) Export(ctx context.Context, sheetID string) (string, error) {
	sh, err := s.get(ctx, sheetID)
	if err != nil {
		return "", err
	}
	return export.Marshal(sh)
}

// Import replaces a sheet's state from a payload. The replacement sheet is
// fully built before anything is stored, so a bad payload cannot leave the
// sheet half written.
func (s *service) Import(ctx context.Context, sheetID string, payload string) (*SheetOutput, error) {
	sh, err := s.get(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	replacement, err := export.Unmarshal(payload, s.catalog, sh.ID, s.uuidGenerator.New)
	if err != nil {
		return nil, err
	}

	if err := s.repository.Update(ctx, replacement); err != nil {
		return nil, apperr.Wrap(err, "failed to store imported sheet").
			WithMeta("sheet_id", sheetID)
	}

	out := s.output(replacement)
	s.publish(events.SheetImported, out)
	return out, nil
}

// get loads a sheet, rejecting blank IDs up front
func (s *service) get(ctx context.Context, sheetID string) (*sheet.Sheet, error) {
	if strings.TrimSpace(sheetID) == "" {
		return nil, apperr.InvalidArgument("sheet ID is required")
	}
	sh, err := s.repository.Get(ctx, sheetID)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to get sheet").
			WithMeta("sheet_id", sheetID)
	}
	return sh, nil
}

// mutate runs fn against a loaded sheet, recomputes derived state, stores the
// result and revalidates. Failures from fn leave the stored sheet untouched.
func (s *service) mutate(ctx context.Context, sheetID string, fn func(*sheet.Sheet) error) (*SheetOutput, error) {
	sh, err := s.get(ctx, sheetID)
	if err != nil {
		return nil, err
	}

	if err := fn(sh); err != nil {
		return nil, err
	}
	sh.Recompute()

	if err := s.repository.Update(ctx, sh); err != nil {
		return nil, apperr.Wrap(err, "failed to update sheet").
			WithMeta("sheet_id", sheetID)
	}

	out := s.output(sh)
	s.publish(events.SheetUpdated, out)
	return out, nil
}

func (s *service) output(sh *sheet.Sheet) *SheetOutput {
	return &SheetOutput{
		Sheet:     sh,
		Conflicts: rules.Validate(sh.Motes),
	}
}

func (s *service) publish(eventType events.EventType, out *SheetOutput) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Emit(events.Event{
		Type:      eventType,
		SheetID:   out.Sheet.ID,
		Sheet:     out.Sheet,
		Conflicts: out.Conflicts,
	})
}

// parseInt reads form text as an integer; blank or unreadable text counts as
// zero, matching how an empty input cell behaves.
func parseInt(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

// parseMultiplier reads form text as a multiplier; blank or unreadable text
// falls back to 1.
func parseMultiplier(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 1
	}
	return f
}
