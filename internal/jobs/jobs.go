// Package jobs runs the scheduled background tasks.
package jobs

import (
	"time"

	"go-pos-lite/internal/models"
	"go-pos-lite/internal/reports"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ProductLister is the part of the catalog the jobs read.
type ProductLister interface {
	Products() ([]models.Product, error)
}

type Scheduler struct {
	sched     *cron.Cron
	products  ProductLister
	threshold int
}

// New prepares a scheduler in loc; nothing runs until Start.
func New(products ProductLister, threshold int, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		sched:     cron.New(cron.WithLocation(loc), cron.WithParser(cronParser)),
		products:  products,
		threshold: threshold,
	}
}

// ScheduleLowStock registers the low-stock alert on spec, e.g. "0 8 * * *".
func (s *Scheduler) ScheduleLowStock(spec string) error {
	_, err := s.sched.AddFunc(spec, func() {
		defer func() {
			if err := recover(); err != nil {
				zap.S().Error(err)
			}
		}()
		s.CheckLowStock()
	})
	return errors.Wrapf(err, "schedule low stock %q", spec)
}

// CheckLowStock logs one warning per product at or below the threshold and
// returns them.
func (s *Scheduler) CheckLowStock() []models.Product {
	products, err := s.products.Products()
	if err != nil {
		zap.L().Error("low stock check failed", zap.Error(err))
		return nil
	}
	low := reports.LowStock(products, s.threshold)
	for _, p := range low {
		zap.L().Warn("low stock", zap.String("product_id", p.ID), zap.String("name", p.Name), zap.Int("stock", p.Stock))
	}
	if len(low) > 0 {
		zap.L().Info("low stock check done", zap.Int("count", len(low)), zap.Int("threshold", s.threshold))
	}
	return low
}

func (s *Scheduler) Start() { s.sched.Start() }

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.sched.Stop().Done()
}
