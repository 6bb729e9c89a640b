package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lanten/lanten/core/announcement"
	"github.com/lanten/lanten/core/lease"
	"github.com/lanten/lanten/core/maintenance"
	"github.com/lanten/lanten/core/message"
	"github.com/lanten/lanten/core/payment"
	"github.com/lanten/lanten/core/property"
	"github.com/lanten/lanten/core/user"
)

// DB is an in-memory storage backend used in tests and local development.
type DB struct {
	mutex sync.RWMutex

	users         map[string]*user.User
	properties    map[string]*property.Property
	leases        map[string]*lease.Lease
	leaseTenants  map[string]*lease.Tenant
	invites       map[string]*lease.Invite
	payments      map[string]*payment.Payment
	reminders     map[string]*payment.Reminder
	announcements map[string]*announcement.Announcement
	requestTypes  map[string]*maintenance.RequestType
	requests      map[string]*maintenance.Request
	messages      map[string]*message.Message
}

func NewDB() *DB {
	return &DB{
		users:         make(map[string]*user.User),
		properties:    make(map[string]*property.Property),
		leases:        make(map[string]*lease.Lease),
		leaseTenants:  make(map[string]*lease.Tenant),
		invites:       make(map[string]*lease.Invite),
		payments:      make(map[string]*payment.Payment),
		reminders:     make(map[string]*payment.Reminder),
		announcements: make(map[string]*announcement.Announcement),
		requestTypes:  make(map[string]*maintenance.RequestType),
		requests:      make(map[string]*maintenance.Request),
		messages:      make(map[string]*message.Message),
	}
}

// SeedRequestTypes installs maintenance request type lookups, mirroring the
// rows the migration seeds.
func (db *DB) SeedRequestTypes(names ...string) []maintenance.RequestType {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	types := make([]maintenance.RequestType, 0, len(names))
	for _, name := range names {
		rt := &maintenance.RequestType{ID: newPK(), Name: name}
		db.requestTypes[rt.ID] = rt
		types = append(types, *rt)
	}
	return types
}

func newPK() string {
	return uuid.New().String()
}
