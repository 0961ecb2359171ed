package ui

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/statelab/statelab/internal/models"
)

// StorageKeyForm is the local key for the persisted form subset.
const StorageKeyForm = "form-storage"

// FormState is the live state of one named form.
type FormState struct {
	Values     map[string]string
	Errors     map[string]string
	Touched    map[string]bool
	Valid      bool
	Submitting bool
}

func emptyForm() FormState {
	return FormState{
		Values:  map[string]string{},
		Errors:  map[string]string{},
		Touched: map[string]bool{},
	}
}

// Preferences are user-controlled form behaviors. They survive reloads.
type Preferences struct {
	AutoSave           bool   `json:"autoSave"`
	ValidateOnBlur     bool   `json:"showValidationOnBlur"`
	ShowCharacterCount bool   `json:"showCharacterCount"`
	DefaultVisibility  string `json:"defaultPostVisibility"`
}

func defaultPreferences() Preferences {
	return Preferences{
		AutoSave:           true,
		ValidateOnBlur:     true,
		ShowCharacterCount: true,
		DefaultVisibility:  "public",
	}
}

// FormStoreState is one immutable snapshot of all form state.
type FormStoreState struct {
	Forms       map[string]FormState
	Preferences Preferences
	Drafts      []models.Draft
}

// FormStore holds field state per named form, user preferences, and saved
// drafts. Preferences and drafts survive reloads through the storage
// boundary; live field state does not.
type FormStore struct {
	mu    sync.Mutex
	state FormStoreState
}

func NewFormStore() *FormStore {
	return &FormStore{
		state: FormStoreState{
			Forms:       map[string]FormState{},
			Preferences: defaultPreferences(),
		},
	}
}

func (s *FormStore) apply(fn func(FormStoreState) FormStoreState) FormStoreState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}

// State returns the current snapshot.
func (s *FormStore) State() FormStoreState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Form returns the state of a named form, empty if it was never touched.
func (s *FormStore) Form(key string) FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.state.Forms[key]; ok {
		return f
	}
	return emptyForm()
}

// withForm replaces one form in a fresh Forms map.
func withForm(st FormStoreState, key string, fn func(FormState) FormState) FormStoreState {
	forms := make(map[string]FormState, len(st.Forms)+1)
	for k, v := range st.Forms {
		forms[k] = v
	}
	f, ok := forms[key]
	if !ok {
		f = emptyForm()
	}
	forms[key] = fn(f)
	st.Forms = forms
	return st
}

func copyStrings(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src)+1)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (s *FormStore) SetValue(form, field, value string) FormStoreState {
	return s.apply(func(st FormStoreState) FormStoreState {
		return withForm(st, form, func(f FormState) FormState {
			values := copyStrings(f.Values)
			values[field] = value
			f.Values = values
			return f
		})
	})
}

// SetErrors replaces the full error map of a form.
func (s *FormStore) SetErrors(form string, errors map[string]string) FormStoreState {
	return s.apply(func(st FormStoreState) FormStoreState {
		return withForm(st, form, func(f FormState) FormState {
			f.Errors = copyStrings(errors)
			return f
		})
	})
}

func (s *FormStore) SetFieldError(form, field, message string) FormStoreState {
	return s.apply(func(st FormStoreState) FormStoreState {
		return withForm(st, form, func(f FormState) FormState {
			errors := copyStrings(f.Errors)
			errors[field] = message
			f.Errors = errors
			return f
		})
	})
}

func (s *FormStore) SetTouched(form, field string, touched bool) FormStoreState {
	return s.apply(func(st FormStoreState) FormStoreState {
		return withForm(st, form, func(f FormState) FormState {
			t := copyFlags(f.Touched)
			t[field] = touched
			f.Touched = t
			return f
		})
	})
}

func (s *FormStore) SetValid(form string, valid bool) FormStoreState {
	return s.apply(func(st FormStoreState) FormStoreState {
		return withForm(st, form, func(f FormState) FormState {
			f.Valid = valid
			return f
		})
	})
}

func (s *FormStore) SetSubmitting(form string, submitting bool) FormStoreState {
	return s.apply(func(st FormStoreState) FormStoreState {
		return withForm(st, form, func(f FormState) FormState {
			f.Submitting = submitting
			return f
		})
	})
}

// ResetForm clears a named form back to its empty state.
func (s *FormStore) ResetForm(form string) FormStoreState {
	return s.apply(func(st FormStoreState) FormStoreState {
		return withForm(st, form, func(FormState) FormState {
			return emptyForm()
		})
	})
}

// SetPreferences replaces the preference set.
func (s *FormStore) SetPreferences(p Preferences) FormStoreState {
	return s.apply(func(st FormStoreState) FormStoreState {
		st.Preferences = p
		return st
	})
}

// SaveDraft appends a new draft and returns it with its assigned id.
func (s *FormStore) SaveDraft(title, body, author string) (models.Draft, FormStoreState) {
	draft := models.Draft{
		ID:           uuid.NewString(),
		Title:        title,
		Body:         body,
		Author:       author,
		LastModified: time.Now(),
	}
	state := s.apply(func(st FormStoreState) FormStoreState {
		drafts := make([]models.Draft, len(st.Drafts), len(st.Drafts)+1)
		copy(drafts, st.Drafts)
		st.Drafts = append(drafts, draft)
		return st
	})
	return draft, state
}

// DraftUpdate is a partial draft update; nil fields are left untouched.
type DraftUpdate struct {
	Title  *string
	Body   *string
	Author *string
}

// UpdateDraft applies upd to the draft with the given id and refreshes its
// timestamp. Unknown ids are a no-op.
func (s *FormStore) UpdateDraft(id string, upd DraftUpdate) FormStoreState {
	return s.apply(func(st FormStoreState) FormStoreState {
		drafts := make([]models.Draft, len(st.Drafts))
		copy(drafts, st.Drafts)
		for i, d := range drafts {
			if d.ID != id {
				continue
			}
			if upd.Title != nil {
				d.Title = *upd.Title
			}
			if upd.Body != nil {
				d.Body = *upd.Body
			}
			if upd.Author != nil {
				d.Author = *upd.Author
			}
			d.LastModified = time.Now()
			drafts[i] = d
		}
		st.Drafts = drafts
		return st
	})
}

func (s *FormStore) DeleteDraft(id string) FormStoreState {
	return s.apply(func(st FormStoreState) FormStoreState {
		drafts := make([]models.Draft, 0, len(st.Drafts))
		for _, d := range st.Drafts {
			if d.ID != id {
				drafts = append(drafts, d)
			}
		}
		st.Drafts = drafts
		return st
	})
}

func (s *FormStore) ClearDrafts() FormStoreState {
	return s.apply(func(st FormStoreState) FormStoreState {
		st.Drafts = nil
		return st
	})
}

// persistedForm is the subset written across reloads.
type persistedForm struct {
	Preferences Preferences    `json:"preferences"`
	Drafts      []models.Draft `json:"drafts"`
}

// Persist writes preferences and drafts to storage.
func (s *FormStore) Persist(storage Storage) error {
	st := s.State()
	data, err := json.Marshal(persistedForm{Preferences: st.Preferences, Drafts: st.Drafts})
	if err != nil {
		return err
	}
	return storage.Write(StorageKeyForm, data)
}

// Restore loads preferences and drafts. A missing key or unreadable payload
// leaves the defaults in place; unknown fields in the payload are ignored.
func (s *FormStore) Restore(storage Storage) {
	data, err := storage.Read(StorageKeyForm)
	if err != nil {
		return
	}
	p := persistedForm{Preferences: defaultPreferences()}
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}
	s.apply(func(st FormStoreState) FormStoreState {
		st.Preferences = p.Preferences
		st.Drafts = p.Drafts
		return st
	})
}
