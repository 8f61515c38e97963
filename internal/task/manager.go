package task

import (
	"time"

	"sajilokaam-api/internal/service"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Manager owns the background scheduler. The only registered job today is
// the overdue-invoice scan.
type Manager struct {
	scheduler gocron.Scheduler
	log       *zap.Logger
}

func NewManager(log *zap.Logger) (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Manager{scheduler: s, log: log}, nil
}

func (m *Manager) RegisterInvoiceOverdueJob(invoices service.Invoice, interval time.Duration) error {
	job := NewInvoiceOverdueJob(invoices, m.log)

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.Name()),
	)

	return err
}

func (m *Manager) Start() {
	m.scheduler.Start()
	m.log.Info("task manager started")
}

func (m *Manager) Stop() error {
	return m.scheduler.Shutdown()
}
