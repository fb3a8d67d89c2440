package agent

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

var ticketBucket = []byte("tickets")

// Ticket is one support ticket record.
type Ticket struct {
	ID        string    `json:"id"`
	Customer  string    `json:"customer"`
	Issue     string    `json:"issue"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketStore persists support tickets in bbolt.
type TicketStore struct {
	db *bolt.DB
}

func NewTicketStore(path string) (*TicketStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open ticket db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(ticketBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &TicketStore{db: db}, nil
}

// Create opens a new ticket and returns it with its generated ID.
func (s *TicketStore) Create(customer, issue string) (*Ticket, error) {
	ticket := &Ticket{
		ID:        uuid.NewString(),
		Customer:  customer,
		Issue:     issue,
		Status:    "open",
		CreatedAt: time.Now().UTC(),
	}
	value, err := json.Marshal(ticket)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ticket: %w", err)
	}
	if err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(ticketBucket).Put([]byte(ticket.ID), value)
	}); err != nil {
		return nil, fmt.Errorf("failed to store ticket: %w", err)
	}
	return ticket, nil
}

// Get looks a ticket up by ID.
func (s *TicketStore) Get(id string) (*Ticket, error) {
	var ticket Ticket
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(ticketBucket).Get([]byte(id))
		if value == nil {
			return fmt.Errorf("ticket %s not found", id)
		}
		return json.Unmarshal(value, &ticket)
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (s *TicketStore) Close() error {
	return s.db.Close()
}
