package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderAnalysis   = "analysis"
	OrderInProgress = "in_progress"
	OrderFinished   = "finished"
	OrderDelivered  = "delivered"
	OrderCanceled   = "canceled"

	LinePending = "pending"
	LineDone    = "done"
)

var (
	ErrLineIndex     = errors.New("line index out of range")
	ErrInvalidStatus = errors.New("invalid order status")
)

// ValidOrderStatus reports whether s is a known order status. Any known
// status may follow any other; the workshop moves orders freely.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderAnalysis, OrderInProgress, OrderFinished, OrderDelivered, OrderCanceled:
		return true
	}
	return false
}

// ServiceOrder (OS) is the ledger of labour and parts for one vehicle visit.
// Total always equals the sum of price*quantity over both line lists; every
// mutator below recalculates before returning.
type ServiceOrder struct {
	ID           uint            `gorm:"primaryKey"`
	Number       string          `gorm:"type:varchar(30);uniqueIndex;not null"`
	ClientID     uint            `gorm:"not null;index"`
	VehicleID    uint            `gorm:"not null;index"`
	Date         time.Time       `gorm:"not null"`
	Status       string          `gorm:"type:varchar(20);not null;default:'analysis'"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Observations string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Services []ServiceLine `gorm:"foreignKey:OrderID"`
	Parts    []PartLine    `gorm:"foreignKey:OrderID"`
}

// ServiceLine is a labour entry. Mechanic is the assigned employee name.
type ServiceLine struct {
	ID          uint            `gorm:"primaryKey"`
	OrderID     uint            `gorm:"not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity    int             `gorm:"not null"`
	Mechanic    *string
	Status      string `gorm:"type:varchar(10);not null;default:'pending'"`
}

// PartLine snapshots a part's code, name and price at the moment it was added.
type PartLine struct {
	ID       uint            `gorm:"primaryKey"`
	OrderID  uint            `gorm:"not null;index"`
	Position int             `gorm:"not null"`
	Code     string          `gorm:"not null"`
	Name     string          `gorm:"not null"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity int             `gorm:"not null"`
}

func (l ServiceLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l PartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// NewServiceOrder starts an empty order in analysis for the given client/vehicle.
func NewServiceOrder(clientID, vehicleID uint, at time.Time) *ServiceOrder {
	return &ServiceOrder{
		ClientID:  clientID,
		VehicleID: vehicleID,
		Date:      at,
		Status:    OrderAnalysis,
		Total:     decimal.Zero,
		Services:  []ServiceLine{},
		Parts:     []PartLine{},
	}
}

// OrderNumber formats the human-facing number. The +100 offset keeps the
// first orders of a fresh install from looking like OS-2024-1.
func OrderNumber(year int, id uint) string {
	return fmt.Sprintf("OS-%d-%d", year, id+100)
}

// Recalculate recomputes Total and the Position of every line.
func (o *ServiceOrder) Recalculate() {
	total := decimal.Zero
	for i := range o.Services {
		o.Services[i].Position = i
		total = total.Add(o.Services[i].Subtotal())
	}
	for i := range o.Parts {
		o.Parts[i].Position = i
		total = total.Add(o.Parts[i].Subtotal())
	}
	o.Total = total
}

func (o *ServiceOrder) AddServiceLine(l ServiceLine) {
	if l.Status == "" {
		l.Status = LinePending
	}
	o.Services = append(o.Services, l)
	o.Recalculate()
}

func (o *ServiceOrder) AddPartLine(l PartLine) {
	o.Parts = append(o.Parts, l)
	o.Recalculate()
}

func (o *ServiceOrder) UpdateServiceLine(idx int, l ServiceLine) error {
	if idx < 0 || idx >= len(o.Services) {
		return ErrLineIndex
	}
	if l.Status == "" {
		l.Status = o.Services[idx].Status
	}
	l.ID = o.Services[idx].ID
	o.Services[idx] = l
	o.Recalculate()
	return nil
}

func (o *ServiceOrder) UpdatePartLine(idx int, l PartLine) error {
	if idx < 0 || idx >= len(o.Parts) {
		return ErrLineIndex
	}
	l.ID = o.Parts[idx].ID
	o.Parts[idx] = l
	o.Recalculate()
	return nil
}

func (o *ServiceOrder) RemoveServiceLine(idx int) error {
	if idx < 0 || idx >= len(o.Services) {
		return ErrLineIndex
	}
	o.Services = append(o.Services[:idx], o.Services[idx+1:]...)
	o.Recalculate()
	return nil
}

func (o *ServiceOrder) RemovePartLine(idx int) error {
	if idx < 0 || idx >= len(o.Parts) {
		return ErrLineIndex
	}
	o.Parts = append(o.Parts[:idx], o.Parts[idx+1:]...)
	o.Recalculate()
	return nil
}

// ToggleServiceDone flips a labour line between pending and done.
// Total is unaffected.
func (o *ServiceOrder) ToggleServiceDone(idx int) error {
	if idx < 0 || idx >= len(o.Services) {
		return ErrLineIndex
	}
	if o.Services[idx].Status == LineDone {
		o.Services[idx].Status = LinePending
	} else {
		o.Services[idx].Status = LineDone
	}
	return nil
}

func (o *ServiceOrder) SetStatus(s string) error {
	if !ValidOrderStatus(s) {
		return ErrInvalidStatus
	}
	o.Status = s
	return nil
}

// Clone returns a deep copy so edits can be staged and discarded.
func (o *ServiceOrder) Clone() *ServiceOrder {
	c := *o
	c.Services = make([]ServiceLine, len(o.Services))
	for i, l := range o.Services {
		if l.Mechanic != nil {
			m := *l.Mechanic
			l.Mechanic = &m
		}
		c.Services[i] = l
	}
	c.Parts = append([]PartLine(nil), o.Parts...)
	if c.Parts == nil {
		c.Parts = []PartLine{}
	}
	return &c
}
