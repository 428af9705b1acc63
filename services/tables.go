package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AliAmzai/Tablr/floorplan"
	"github.com/AliAmzai/Tablr/models"
	"github.com/AliAmzai/Tablr/observability"
	"github.com/AliAmzai/Tablr/utils"
	"gorm.io/gorm"
)

const publishTimeout = 5 * time.Second

type TableService struct {
	db     *gorm.DB
	events EventPublisher
}

func NewTableService(db *gorm.DB, events EventPublisher) *TableService {
	if events == nil {
		events = NopPublisher{}
	}
	return &TableService{db: db, events: events}
}

func (s *TableService) List(ctx context.Context, floorID uint) ([]models.Table, error) {
	tables := []models.Table{}
	err := s.db.WithContext(ctx).
		Where("floor_id = ?", floorID).
		Order("id ASC").
		Find(&tables).Error
	if err != nil {
		return nil, err
	}
	if err := s.AttachWorkers(ctx, tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// Create stores a new table and hands it the next number of its floor's sequence.
func (s *TableService) Create(ctx context.Context, restaurantID uint, in floorplan.NewTable) (*models.Table, error) {
	if err := s.checkWorker(ctx, restaurantID, in.WorkerID); err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = models.StatusAvailable
	}
	table := &models.Table{
		FloorID:  in.FloorID,
		Name:     in.Name,
		Shape:    in.Shape,
		Capacity: in.Capacity,
		Status:   status,
		X:        in.X,
		Y:        in.Y,
		Width:    in.Width,
		Height:   in.Height,
		WorkerID: in.WorkerID,
		Version:  1,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Floor{}).
			Where("id = ?", in.FloorID).
			UpdateColumn("table_seq", gorm.Expr("table_seq + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}

		var floor models.Floor
		if err := tx.Select("id", "table_seq").First(&floor, in.FloorID).Error; err != nil {
			return err
		}
		table.TableNumber = floor.TableSeq
		return tx.Create(table).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.attachWorker(ctx, table); err != nil {
		return nil, err
	}
	return table, nil
}

// Update applies a partial patch. A supplied version must match the stored one.
func (s *TableService) Update(ctx context.Context, restaurantID uint, table *models.Table, patch floorplan.TablePatch) error {
	if patch.Version != nil && *patch.Version != table.Version {
		return ErrVersionConflict
	}
	if !patch.ClearWorker {
		if err := s.checkWorker(ctx, restaurantID, patch.WorkerID); err != nil {
			return err
		}
	}

	from := table.Status
	patch.ApplyTo(table)
	if err := s.save(ctx, table, patch.Version != nil); err != nil {
		return err
	}
	s.statusChanged(ctx, restaurantID, table, from)
	return s.attachWorker(ctx, table)
}

// Transition runs a reserve, seat or clear action and persists the result.
func (s *TableService) Transition(ctx context.Context, restaurantID uint, table *models.Table, action floorplan.Action, r *models.TableReservation) error {
	from := table.Status
	if err := floorplan.Apply(table, action, r); err != nil {
		return err
	}
	if err := s.save(ctx, table, false); err != nil {
		return err
	}
	s.statusChanged(ctx, restaurantID, table, from)
	return s.attachWorker(ctx, table)
}

func (s *TableService) Delete(ctx context.Context, table *models.Table) error {
	return s.db.WithContext(ctx).Delete(&models.Table{}, table.ID).Error
}

func (s *TableService) save(ctx context.Context, table *models.Table, checkVersion bool) error {
	previous := table.Version
	table.Version = previous + 1
	table.UpdatedAt = time.Now()

	q := s.db.WithContext(ctx).Model(&models.Table{}).Where("id = ?", table.ID)
	if checkVersion {
		q = q.Where("version = ?", previous)
	}
	res := q.Updates(map[string]interface{}{
		"name":               table.Name,
		"shape":              table.Shape,
		"capacity":           table.Capacity,
		"status":             table.Status,
		"x":                  table.X,
		"y":                  table.Y,
		"width":              table.Width,
		"height":             table.Height,
		"worker_id":          table.WorkerID,
		"version":            table.Version,
		"reservation_name":   table.ReservationName,
		"reservation_time":   table.ReservationTime,
		"reservation_guests": table.ReservationGuests,
		"updated_at":         table.UpdatedAt,
	})
	if res.Error != nil {
		table.Version = previous
		return res.Error
	}
	if res.RowsAffected == 0 {
		table.Version = previous
		if checkVersion {
			return ErrVersionConflict
		}
		return ErrNotFound
	}
	return nil
}

func (s *TableService) checkWorker(ctx context.Context, restaurantID uint, workerID *uint) error {
	if workerID == nil {
		return nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ? AND restaurant_id = ?", *workerID, restaurantID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrWorkerNotInRestaurant
	}
	return nil
}

func (s *TableService) statusChanged(ctx context.Context, restaurantID uint, table *models.Table, from string) {
	if from == table.Status {
		return
	}
	observability.ObserveTableTransition(from, table.Status)

	event := TableStatusChangedEvent{
		TableID:      table.ID,
		FloorID:      table.FloorID,
		RestaurantID: restaurantID,
		TableName:    table.Name,
		From:         from,
		To:           table.Status,
		Reservation:  table.Reservation(),
		OccurredAt:   time.Now().UTC(),
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.events.PublishTableStatusChanged(pubCtx, event); err != nil {
		utils.ErrorLogger.WithError(err).WithField("table_id", table.ID).Error("Failed to publish table status event")
		return
	}
	utils.InfoLogger.Infof("Table %d status changed from %s to %s", table.ID, from, table.Status)
}

// AttachWorkers fills the worker summary of every table that has one assigned.
func (s *TableService) AttachWorkers(ctx context.Context, tables []models.Table) error {
	ids := make([]uint, 0, len(tables))
	for _, t := range tables {
		if t.WorkerID != nil {
			ids = append(ids, *t.WorkerID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var employees []models.Employee
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&employees).Error; err != nil {
		return fmt.Errorf("load workers: %w", err)
	}
	byID := make(map[uint]models.Employee, len(employees))
	for _, e := range employees {
		byID[e.ID] = e
	}
	for i := range tables {
		tables[i].Worker = nil
		if tables[i].WorkerID == nil {
			continue
		}
		if e, ok := byID[*tables[i].WorkerID]; ok {
			tables[i].Worker = &models.WorkerSummary{ID: e.ID, Name: e.Name, Role: e.Role}
		}
	}
	return nil
}

func (s *TableService) attachWorker(ctx context.Context, table *models.Table) error {
	if table.WorkerID == nil {
		table.Worker = nil
		return nil
	}
	one := []models.Table{*table}
	if err := s.AttachWorkers(ctx, one); err != nil {
		return err
	}
	table.Worker = one[0].Worker
	return nil
}

// AttachTableRefs lists the tables assigned to each employee.
func (s *TableService) AttachTableRefs(ctx context.Context, employees []models.Employee) error {
	if len(employees) == 0 {
		return nil
	}
	ids := make([]uint, len(employees))
	for i, e := range employees {
		ids[i] = e.ID
	}

	var tables []models.Table
	err := s.db.WithContext(ctx).
		Where("worker_id IN ?", ids).
		Order("id ASC").
		Find(&tables).Error
	if err != nil {
		return fmt.Errorf("load assigned tables: %w", err)
	}
	byWorker := make(map[uint][]models.TableSummary)
	for _, t := range tables {
		byWorker[*t.WorkerID] = append(byWorker[*t.WorkerID], models.TableSummary{ID: t.ID, Name: t.Name, Capacity: t.Capacity})
	}
	for i := range employees {
		refs := byWorker[employees[i].ID]
		if refs == nil {
			refs = []models.TableSummary{}
		}
		employees[i].TableRefs = refs
	}
	return nil
}
