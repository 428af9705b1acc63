package services

import (
	"sync"
	"time"

	"github.com/AliAmzai/Tablr/models"
	"github.com/AliAmzai/Tablr/utils"
	"gorm.io/gorm"
)

// ReservationMonitor periodically completes confirmed reservations whose end time has passed
// and prunes expired entries from the token blacklist.
type ReservationMonitor struct {
	DB       *gorm.DB
	StopChan chan struct{}
	Interval time.Duration
	now      func() time.Time
	stopOnce sync.Once
}

func NewReservationMonitor(db *gorm.DB, interval time.Duration) *ReservationMonitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ReservationMonitor{
		DB:       db,
		StopChan: make(chan struct{}),
		Interval: interval,
		now:      time.Now,
	}
}

func (rm *ReservationMonitor) Start() {
	go func() {
		ticker := time.NewTicker(rm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rm.Sweep()
			case <-rm.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Infof("Reservation monitor started (every %s)", rm.Interval)
}

// Stop is safe to call more than once.
func (rm *ReservationMonitor) Stop() {
	rm.stopOnce.Do(func() { close(rm.StopChan) })
}

// Sweep runs one pass and returns the number of reservations it completed.
func (rm *ReservationMonitor) Sweep() int64 {
	now := rm.now()

	res := rm.DB.Model(&models.Reservation{}).
		Where("status = ? AND end_time < ?", models.ReservationConfirmed, now).
		Updates(map[string]interface{}{
			"status":     models.ReservationCompleted,
			"updated_at": now,
		})
	if res.Error != nil {
		utils.ErrorLogger.WithError(res.Error).Error("Failed to complete past reservations")
	} else if res.RowsAffected > 0 {
		utils.InfoLogger.Infof("Completed %d past reservations", res.RowsAffected)
	}

	if pruned := utils.PruneBlacklist(now); pruned > 0 {
		utils.InfoLogger.Debugf("Pruned %d expired tokens from blacklist", pruned)
	}
	return res.RowsAffected
}
