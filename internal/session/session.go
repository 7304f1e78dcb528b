// Package session models the ordered set of open documents and the active-tab
// pointer as a value. Every transition returns a new Session plus the commands
// the caller must carry out; nothing here touches a render surface.
package session

import (
	"errors"
	"fmt"
)

var (
	ErrCannotCloseLastDocument = errors.New("cannot close the last document")
	ErrIndexOutOfRange         = errors.New("document index out of range")
)

// LastDocumentNotice is shown to the reader when a close is refused.
const LastDocumentNotice = "Keep at least one file open."

// Document is one open text unit. Content is rich markup and is stale while
// the document is active, until the next commit.
type Document struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Session is the ordered, non-empty list of open documents and the active index.
type Session struct {
	Documents []Document `json:"documents"`
	Active    int        `json:"active"`
}

// TabDescriptor is the presentation projection of one document.
type TabDescriptor struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// New starts a session holding a single active document.
func New(seed Document) Session {
	return Session{Documents: []Document{seed}, Active: 0}
}

// Len returns the number of open documents.
func (s Session) Len() int {
	return len(s.Documents)
}

// ActiveDocument returns the document under the active pointer.
func (s Session) ActiveDocument() Document {
	return s.Documents[s.Active]
}

// Document returns the document at index.
func (s Session) Document(index int) (Document, error) {
	if err := s.checkIndex(index); err != nil {
		return Document{}, err
	}
	return s.Documents[index], nil
}

// Commit stores the live surface markup into the active document.
func (s Session) Commit(live string) Session {
	docs := s.cloneDocs()
	docs[s.Active].Content = live
	return Session{Documents: docs, Active: s.Active}
}

// AddDocument appends a document without activating it and returns its index.
func (s Session) AddDocument(name, content string) (Session, int) {
	docs := append(s.cloneDocs(), Document{Name: name, Content: content})
	return Session{Documents: docs, Active: s.Active}, len(docs) - 1
}

// SwitchTo commits live into the current document, then activates index.
func (s Session) SwitchTo(live string, index int) (Session, []Command, error) {
	if err := s.checkIndex(index); err != nil {
		return s, nil, err
	}
	next := s.Commit(live)
	next.Active = index
	return next, []Command{ReloadSurface{Index: index}}, nil
}

// CloseDocument commits live, then removes the document at index. The last
// remaining document cannot be closed.
func (s Session) CloseDocument(live string, index int) (Session, []Command, error) {
	if len(s.Documents) == 1 {
		return s, []Command{Notice{Message: LastDocumentNotice}}, ErrCannotCloseLastDocument
	}
	if err := s.checkIndex(index); err != nil {
		return s, nil, err
	}

	committed := s.Commit(live)
	docs := make([]Document, 0, len(committed.Documents)-1)
	docs = append(docs, committed.Documents[:index]...)
	docs = append(docs, committed.Documents[index+1:]...)
	next := Session{Documents: docs, Active: committed.Active}

	if next.Active < index {
		return next, nil, nil
	}
	next.Active = min(next.Active, len(docs)-1)
	return next, []Command{ReloadSurface{Index: next.Active}}, nil
}

// Tabs projects the session into tab descriptors.
func (s Session) Tabs() []TabDescriptor {
	tabs := make([]TabDescriptor, len(s.Documents))
	for i, d := range s.Documents {
		tabs[i] = TabDescriptor{Name: d.Name, Active: i == s.Active}
	}
	return tabs
}

// Validate checks the session invariants.
func (s Session) Validate() error {
	if len(s.Documents) == 0 {
		return errors.New("session has no documents")
	}
	return s.checkIndex(s.Active)
}

func (s Session) checkIndex(index int) error {
	if index < 0 || index >= len(s.Documents) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(s.Documents))
	}
	return nil
}

func (s Session) cloneDocs() []Document {
	docs := make([]Document, len(s.Documents), len(s.Documents)+1)
	copy(docs, s.Documents)
	return docs
}
