package ui

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/statelab/statelab/internal/models"
)

// StorageKeyInterface is the local key for the persisted interface subset.
const StorageKeyInterface = "ui-storage"

// InterfaceState is one immutable snapshot of the transient interface
// state. Mutation methods return a new snapshot and never modify the
// receiver's maps or slices.
type InterfaceState struct {
	SidebarOpen   bool
	Modals        map[string]bool
	Notifications []models.Notification
	Loading       map[string]bool
}

func copyFlags(src map[string]bool) map[string]bool {
	dst := make(map[string]bool, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s InterfaceState) withSidebar(open bool) InterfaceState {
	s.SidebarOpen = open
	return s
}

func (s InterfaceState) withModal(name string, open bool) InterfaceState {
	modals := copyFlags(s.Modals)
	modals[name] = open
	s.Modals = modals
	return s
}

func (s InterfaceState) withLoading(name string, on bool) InterfaceState {
	loading := copyFlags(s.Loading)
	loading[name] = on
	s.Loading = loading
	return s
}

func (s InterfaceState) withNotification(n models.Notification) InterfaceState {
	list := make([]models.Notification, len(s.Notifications), len(s.Notifications)+1)
	copy(list, s.Notifications)
	s.Notifications = append(list, n)
	return s
}

func (s InterfaceState) withoutNotification(id string) InterfaceState {
	list := make([]models.Notification, 0, len(s.Notifications))
	for _, n := range s.Notifications {
		if n.ID != id {
			list = append(list, n)
		}
	}
	s.Notifications = list
	return s
}

// InterfaceStore serializes access to the current snapshot. Lifetime is the
// page session; only the sidebar flag survives reloads.
type InterfaceStore struct {
	mu    sync.Mutex
	state InterfaceState
}

func NewInterfaceStore() *InterfaceStore {
	return &InterfaceStore{
		state: InterfaceState{
			Modals:  map[string]bool{},
			Loading: map[string]bool{},
		},
	}
}

func (s *InterfaceStore) apply(fn func(InterfaceState) InterfaceState) InterfaceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}

// State returns the current snapshot.
func (s *InterfaceStore) State() InterfaceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *InterfaceStore) ToggleSidebar() InterfaceState {
	return s.apply(func(st InterfaceState) InterfaceState {
		return st.withSidebar(!st.SidebarOpen)
	})
}

func (s *InterfaceStore) SetSidebarOpen(open bool) InterfaceState {
	return s.apply(func(st InterfaceState) InterfaceState {
		return st.withSidebar(open)
	})
}

func (s *InterfaceStore) OpenModal(name string) InterfaceState {
	return s.apply(func(st InterfaceState) InterfaceState {
		return st.withModal(name, true)
	})
}

func (s *InterfaceStore) CloseModal(name string) InterfaceState {
	return s.apply(func(st InterfaceState) InterfaceState {
		return st.withModal(name, false)
	})
}

func (s *InterfaceStore) SetLoading(name string, on bool) InterfaceState {
	return s.apply(func(st InterfaceState) InterfaceState {
		return st.withLoading(name, on)
	})
}

// Notify appends a notification and returns it alongside the new snapshot.
func (s *InterfaceStore) Notify(severity models.Severity, title, message string) (models.Notification, InterfaceState) {
	n := models.Notification{
		ID:        uuid.NewString(),
		Severity:  severity,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now(),
	}
	state := s.apply(func(st InterfaceState) InterfaceState {
		return st.withNotification(n)
	})
	return n, state
}

func (s *InterfaceStore) RemoveNotification(id string) InterfaceState {
	return s.apply(func(st InterfaceState) InterfaceState {
		return st.withoutNotification(id)
	})
}

func (s *InterfaceStore) ClearNotifications() InterfaceState {
	return s.apply(func(st InterfaceState) InterfaceState {
		st.Notifications = nil
		return st
	})
}

// persistedInterface is the subset written across reloads.
type persistedInterface struct {
	SidebarOpen bool `json:"sidebarOpen"`
}

// Persist writes the durable subset of the state to storage.
func (s *InterfaceStore) Persist(storage Storage) error {
	data, err := json.Marshal(persistedInterface{SidebarOpen: s.State().SidebarOpen})
	if err != nil {
		return err
	}
	return storage.Write(StorageKeyInterface, data)
}

// Restore loads the durable subset. A missing key or unreadable payload
// leaves the defaults in place.
func (s *InterfaceStore) Restore(storage Storage) {
	data, err := storage.Read(StorageKeyInterface)
	if err != nil {
		return
	}
	var p persistedInterface
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	s.SetSidebarOpen(p.SidebarOpen)
}
