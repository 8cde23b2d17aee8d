package organizer

import (
	"sync"

	"github.com/mdpreview/mdpreview/internal/model"
)

// FileList is the in-memory file collection behind one list-owning view
// (a group's file grid, the ungrouped sidebar section). It subscribes to
// move events and patches itself in place instead of re-fetching.
//
// GroupID nil means the list holds ungrouped files.
type FileList struct {
	mu      sync.Mutex
	groupID *string
	files   []model.File

	unsubscribe func()
}

// NewFileList creates the list and attaches it to the bus. Call Close when
// the owning view unmounts.
func NewFileList(bus *Bus, groupID *string, initial []model.File) *FileList {
	l := &FileList{
		groupID: groupID,
		files:   append([]model.File(nil), initial...),
	}
	l.unsubscribe = bus.Subscribe(l.apply)
	return l
}

// Close detaches the list from the bus.
func (l *FileList) Close() {
	if l.unsubscribe != nil {
		l.unsubscribe()
		l.unsubscribe = nil
	}
}

// apply reconciles one move event: a file moved into this list's bucket is
// appended (deduped by id, group overwritten to the bucket); a file moved
// elsewhere is removed if present. Events for unrelated files fall through
// both branches untouched.
func (l *FileList) apply(event FileMovedEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	movedHere := sameGroup(event.TargetGroupID, l.groupID)

	for i, f := range l.files {
		if f.ID != event.FileID {
			continue
		}
		if movedHere {
			// Already present, refresh the snapshot in place.
			l.files[i] = normalized(event.File, l.groupID)
			return
		}
		l.files = append(l.files[:i], l.files[i+1:]...)
		return
	}

	if movedHere {
		l.files = append(l.files, normalized(event.File, l.groupID))
	}
}

// Files returns a copy of the current list.
func (l *FileList) Files() []model.File {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.File(nil), l.files...)
}

// Count is the list length; views derive badges and counters from it.
func (l *FileList) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.files)
}

// Contains reports whether a file id is present.
func (l *FileList) Contains(fileID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, f := range l.files {
		if f.ID == fileID {
			return true
		}
	}
	return false
}

func sameGroup(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func normalized(file model.File, groupID *string) model.File {
	file.GroupID = groupID
	return file
}
