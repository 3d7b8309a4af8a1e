package services

import (
	"sync"
	"time"

	"github.com/yeremiapane/opsportal/realtime"
	"github.com/yeremiapane/opsportal/utils"
)

// OverdueMonitor polls for inventory loans past their due time and
// broadcasts each one once.
type OverdueMonitor struct {
	inventory *InventoryService
	events    realtime.Publisher
	Interval  time.Duration
	stopChan  chan struct{}
	stopOnce  sync.Once
}

func NewOverdueMonitor(inventory *InventoryService, events realtime.Publisher, interval time.Duration) *OverdueMonitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &OverdueMonitor{
		inventory: inventory,
		events:    publisherOrDiscard(events),
		Interval:  interval,
		stopChan:  make(chan struct{}),
	}
}

func (m *OverdueMonitor) Start() {
	go func() {
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.CheckOnce()
			case <-m.stopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Printf("Overdue loan monitor started (every %s)", m.Interval)
}

func (m *OverdueMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

// CheckOnce runs a single poll and returns how many loans were reported.
func (m *OverdueMonitor) CheckOnce() int {
	loans, err := m.inventory.FlagOverdue()
	if err != nil {
		utils.ErrorLogger.Printf("Error checking overdue loans: %v", err)
		return 0
	}
	for _, loan := range loans {
		m.events.Broadcast(realtime.EventLoanOverdue, loan)
	}
	if len(loans) > 0 {
		utils.InfoLogger.Printf("Reported %d overdue loans", len(loans))
	}
	return len(loans)
}
