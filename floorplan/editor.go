package floorplan

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/AliAmzai/Tablr/models"
)

var (
	ErrNotInEditMode = errors.New("floor plan is not in edit mode")
	ErrUnknownTable  = errors.New("table not found on this floor")
	ErrNoDrag        = errors.New("no drag in progress")
)

// Defaults for a table added from the editor.
const (
	NewTableSize = 8.0
	spawnMin     = 15.0
	spawnSpan    = 70.0
)

// Store is the persistence side of the editor. client.Client implements it over REST.
type Store interface {
	ListTables(ctx context.Context, floorID uint) ([]models.Table, error)
	CreateTable(ctx context.Context, in NewTable) (models.Table, error)
	UpdateTable(ctx context.Context, tableID uint, patch TablePatch) (models.Table, error)
	DeleteTable(ctx context.Context, tableID uint) error
	TransitionTable(ctx context.Context, tableID uint, action Action, r *models.TableReservation) (models.Table, error)
}

type drag struct {
	tableID uint
	moved   bool
}

// Editor keeps the local floor plan for one floor. Local changes show up at once and are
// persisted through the Store; a failed save rolls the table back to its last confirmed state.
type Editor struct {
	mu        sync.Mutex
	store     Store
	floorID   uint
	tables    []models.Table
	confirmed map[uint]models.Table
	editMode  bool
	selected  uint
	drag      *drag
	random    func() float64
}

func NewEditor(store Store, floorID uint) *Editor {
	return &Editor{
		store:     store,
		floorID:   floorID,
		confirmed: map[uint]models.Table{},
		random:    rand.Float64,
	}
}

func (e *Editor) FloorID() uint { return e.floorID }

// Refresh loads the floor from the store and reconciles local state with it.
func (e *Editor) Refresh(ctx context.Context) error {
	tables, err := e.store.ListTables(ctx, e.floorID)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	e.Reconcile(tables)
	return nil
}

// Reconcile replaces local state with a server listing. A table being dragged keeps its local position.
func (e *Editor) Reconcile(tables []models.Table) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var dragged *models.Table
	if e.drag != nil {
		if i := e.indexOf(e.drag.tableID); i >= 0 {
			t := e.tables[i]
			dragged = &t
		}
	}

	e.tables = make([]models.Table, len(tables))
	copy(e.tables, tables)
	e.confirmed = make(map[uint]models.Table, len(tables))
	for _, t := range tables {
		e.confirmed[t.ID] = t
	}

	if dragged != nil {
		if i := e.indexOf(dragged.ID); i >= 0 {
			e.tables[i].X, e.tables[i].Y = dragged.X, dragged.Y
		} else {
			e.drag = nil
		}
	}
	if e.selected != 0 && e.indexOf(e.selected) < 0 {
		e.selected = 0
	}
}

// Tables returns a copy of the local tables.
func (e *Editor) Tables() []models.Table {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.Table, len(e.tables))
	copy(out, e.tables)
	return out
}

func (e *Editor) Table(id uint) (models.Table, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.indexOf(id)
	if i < 0 {
		return models.Table{}, false
	}
	return e.tables[i], true
}

func (e *Editor) EditMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editMode
}

// SetEditMode toggles editing. Entering clears the selection; leaving drops an unfinished drag.
func (e *Editor) SetEditMode(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.editMode = on
	if on {
		e.selected = 0
		return
	}
	if e.drag != nil {
		e.restore(e.drag.tableID)
		e.drag = nil
	}
}

// Select marks a table as selected. It is a no-op in edit mode.
func (e *Editor) Select(id uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editMode {
		return nil
	}
	if e.indexOf(id) < 0 {
		return ErrUnknownTable
	}
	e.selected = id
	return nil
}

func (e *Editor) ClearSelection() {
	e.mu.Lock()
	e.selected = 0
	e.mu.Unlock()
}

func (e *Editor) Selected() (models.Table, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.selected == 0 {
		return models.Table{}, false
	}
	i := e.indexOf(e.selected)
	if i < 0 {
		return models.Table{}, false
	}
	return e.tables[i], true
}

func (e *Editor) BeginDrag(id uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editMode {
		return ErrNotInEditMode
	}
	if e.indexOf(id) < 0 {
		return ErrUnknownTable
	}
	e.drag = &drag{tableID: id}
	return nil
}

// DragTo moves the dragged table under the pointer. Nothing is persisted until EndDrag.
func (e *Editor) DragTo(pointer Point, container Rect) (float64, float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.drag == nil {
		return 0, 0, ErrNoDrag
	}
	i := e.indexOf(e.drag.tableID)
	if i < 0 {
		e.drag = nil
		return 0, 0, ErrUnknownTable
	}
	x, y := PointerToPercent(pointer, container)
	if x != e.tables[i].X || y != e.tables[i].Y {
		e.tables[i].X, e.tables[i].Y = x, y
		e.drag.moved = true
	}
	return x, y, nil
}

// EndDrag persists the final position with a single update. A drag without movement saves nothing.
func (e *Editor) EndDrag(ctx context.Context) error {
	e.mu.Lock()
	d := e.drag
	e.drag = nil
	if d == nil {
		e.mu.Unlock()
		return ErrNoDrag
	}
	i := e.indexOf(d.tableID)
	if !d.moved || i < 0 {
		e.mu.Unlock()
		return nil
	}
	x, y := e.tables[i].X, e.tables[i].Y
	e.mu.Unlock()

	saved, err := e.store.UpdateTable(ctx, d.tableID, TablePatch{X: &x, Y: &y})

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		if e.drag == nil || e.drag.tableID != d.tableID {
			e.restore(d.tableID)
		}
		return fmt.Errorf("save table position: %w", err)
	}
	e.confirm(saved)
	return nil
}

// UpdateTable applies a patch locally and persists it.
func (e *Editor) UpdateTable(ctx context.Context, id uint, patch TablePatch) (models.Table, error) {
	if patch.Status != nil && !models.ValidTableStatus(*patch.Status) {
		return models.Table{}, fmt.Errorf("invalid status %q", *patch.Status)
	}
	e.mu.Lock()
	i := e.indexOf(id)
	if i < 0 {
		e.mu.Unlock()
		return models.Table{}, ErrUnknownTable
	}
	patch.ApplyTo(&e.tables[i])
	e.mu.Unlock()

	saved, err := e.store.UpdateTable(ctx, id, patch)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.restore(id)
		return models.Table{}, fmt.Errorf("update table: %w", err)
	}
	e.confirm(saved)
	return saved, nil
}

// NextTableName proposes a display name from the local count. The server assigns the real number.
func (e *Editor) NextTableName() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fmt.Sprintf("T%d", len(e.tables)+1)
}

// AddTable creates an available table at a random spot away from the edges.
func (e *Editor) AddTable(ctx context.Context, shape string, capacity int) (models.Table, error) {
	if !models.ValidShape(shape) {
		return models.Table{}, fmt.Errorf("invalid shape %q", shape)
	}
	e.mu.Lock()
	in := NewTable{
		FloorID:  e.floorID,
		Name:     fmt.Sprintf("T%d", len(e.tables)+1),
		Shape:    shape,
		Capacity: capacity,
		Status:   models.StatusAvailable,
		X:        e.random()*spawnSpan + spawnMin,
		Y:        e.random()*spawnSpan + spawnMin,
		Width:    NewTableSize,
		Height:   NewTableSize,
	}
	e.mu.Unlock()

	created, err := e.store.CreateTable(ctx, in)
	if err != nil {
		return models.Table{}, fmt.Errorf("create table: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.indexOf(created.ID) < 0 {
		e.tables = append(e.tables, created)
	}
	e.confirmed[created.ID] = created
	return created, nil
}

// DeleteTable removes the table locally, then on the server. The selection is cleared if it pointed at it.
func (e *Editor) DeleteTable(ctx context.Context, id uint) error {
	e.mu.Lock()
	i := e.indexOf(id)
	if i < 0 {
		e.mu.Unlock()
		return ErrUnknownTable
	}
	removed := e.tables[i]
	e.tables = append(e.tables[:i], e.tables[i+1:]...)
	if e.selected == id {
		e.selected = 0
	}
	if e.drag != nil && e.drag.tableID == id {
		e.drag = nil
	}
	e.mu.Unlock()

	if err := e.store.DeleteTable(ctx, id); err != nil {
		e.mu.Lock()
		if e.indexOf(id) < 0 {
			if c, ok := e.confirmed[id]; ok {
				removed = c
			}
			if i > len(e.tables) {
				i = len(e.tables)
			}
			e.tables = append(e.tables[:i], append([]models.Table{removed}, e.tables[i:]...)...)
		}
		e.mu.Unlock()
		return fmt.Errorf("delete table: %w", err)
	}

	e.mu.Lock()
	delete(e.confirmed, id)
	e.mu.Unlock()
	return nil
}

func (e *Editor) Reserve(ctx context.Context, id uint, r models.TableReservation) (models.Table, error) {
	return e.transition(ctx, id, ActionReserve, &r)
}

func (e *Editor) Seat(ctx context.Context, id uint) (models.Table, error) {
	return e.transition(ctx, id, ActionSeat, nil)
}

func (e *Editor) Clear(ctx context.Context, id uint) (models.Table, error) {
	return e.transition(ctx, id, ActionClear, nil)
}

func (e *Editor) transition(ctx context.Context, id uint, action Action, r *models.TableReservation) (models.Table, error) {
	e.mu.Lock()
	i := e.indexOf(id)
	if i < 0 {
		e.mu.Unlock()
		return models.Table{}, ErrUnknownTable
	}
	local := e.tables[i]
	if err := Apply(&local, action, r); err != nil {
		e.mu.Unlock()
		return models.Table{}, err
	}
	e.tables[i] = local
	e.mu.Unlock()

	var sent *models.TableReservation
	if action == ActionReserve {
		sent = local.Reservation()
	}
	saved, err := e.store.TransitionTable(ctx, id, action, sent)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.restore(id)
		return models.Table{}, fmt.Errorf("%s table: %w", action, err)
	}
	e.confirm(saved)
	return saved, nil
}

// confirm records a server result. An active drag on the table keeps its local position.
func (e *Editor) confirm(saved models.Table) {
	e.confirmed[saved.ID] = saved
	i := e.indexOf(saved.ID)
	if i < 0 {
		return
	}
	if e.drag != nil && e.drag.tableID == saved.ID {
		saved.X, saved.Y = e.tables[i].X, e.tables[i].Y
	}
	e.tables[i] = saved
}

func (e *Editor) restore(id uint) {
	i := e.indexOf(id)
	c, ok := e.confirmed[id]
	if i < 0 || !ok {
		return
	}
	e.tables[i] = c
}

func (e *Editor) indexOf(id uint) int {
	for i := range e.tables {
		if e.tables[i].ID == id {
			return i
		}
	}
	return -1
}
