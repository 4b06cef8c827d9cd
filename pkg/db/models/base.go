package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assignID fills an empty primary key before insert so rows created through
// gorm carry an id regardless of the database default.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (p *Product) BeforeCreate(*gorm.DB) error            { assignID(&p.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error              { assignID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error          { assignID(&i.ID); return nil }
func (i *InventoryItem) BeforeCreate(*gorm.DB) error      { assignID(&i.ID); return nil }
func (m *StockMovement) BeforeCreate(*gorm.DB) error      { assignID(&m.ID); return nil }
func (e *Employee) BeforeCreate(*gorm.DB) error           { assignID(&e.ID); return nil }
func (t *TimeEntry) BeforeCreate(*gorm.DB) error          { assignID(&t.ID); return nil }
func (c *LoyaltyCard) BeforeCreate(*gorm.DB) error        { assignID(&c.ID); return nil }
func (t *LoyaltyTransaction) BeforeCreate(*gorm.DB) error { assignID(&t.ID); return nil }
func (u *User) BeforeCreate(*gorm.DB) error               { assignID(&u.ID); return nil }
