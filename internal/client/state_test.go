package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mcg-platform/componentgen/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"pgregory.net/rapid"
)

func newSession(prompt string) domain.Session {
	return domain.Session{
		ID:     primitive.NewObjectID(),
		Prompt: prompt,
	}
}

// checkConsistent verifies the dual-write invariant: the active session is
// either nil or equal to the list element with the same id.
func checkConsistent(t interface {
	Fatalf(format string, args ...any)
}, s *State) {
	snap := s.Snapshot()
	if snap.ActiveSession == nil {
		return
	}

	for _, sess := range snap.Sessions {
		if sess.ID == snap.ActiveSession.ID {
			if sess.CurrentJSX != snap.ActiveSession.CurrentJSX ||
				len(sess.ChatMessages) != len(snap.ActiveSession.ChatMessages) {
				t.Fatalf("active session diverged from its list element")
			}
			return
		}
	}
	t.Fatalf("active session %s not present in list", snap.ActiveSession.ID.Hex())
}

func TestState_DualWriteInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		state := NewState(nil)
		var known []string

		ops := rapid.SliceOfN(rapid.IntRange(0, 3), 1, 40).Draw(rt, "ops")
		for _, op := range ops {
			switch op {
			case 0: // add
				sess := newSession(rapid.StringN(1, 12, 12).Draw(rt, "prompt"))
				state.AddSession(sess)
				known = append(known, sess.ID.Hex())
			case 1: // remove a known or unknown id
				if len(known) > 0 && rapid.Bool().Draw(rt, "removeKnown") {
					i := rapid.IntRange(0, len(known)-1).Draw(rt, "idx")
					state.RemoveSession(known[i])
					known = append(known[:i], known[i+1:]...)
				} else {
					state.RemoveSession(primitive.NewObjectID().Hex())
				}
			case 2: // update active
				jsx := rapid.StringN(0, 20, 20).Draw(rt, "jsx")
				state.UpdateActive(domain.SessionUpdate{CurrentJSX: &jsx})
			case 3: // select an element as active
				snap := state.Snapshot()
				if len(snap.Sessions) > 0 {
					i := rapid.IntRange(0, len(snap.Sessions)-1).Draw(rt, "activeIdx")
					state.SetActive(&snap.Sessions[i])
				}
			}
			checkConsistent(rt, state)
		}
	})
}

func TestState_AddPrependsAndActivates(t *testing.T) {
	state := NewState(nil)

	first := newSession("first")
	second := newSession("second")
	state.AddSession(first)
	state.AddSession(second)

	snap := state.Snapshot()
	require.Len(t, snap.Sessions, 2)
	assert.Equal(t, second.ID, snap.Sessions[0].ID, "newest session first")
	require.NotNil(t, snap.ActiveSession)
	assert.Equal(t, second.ID, snap.ActiveSession.ID)
}

func TestState_RemoveRepairsActive(t *testing.T) {
	state := NewState(nil)

	a := newSession("a")
	b := newSession("b")
	state.AddSession(a)
	state.AddSession(b) // active, head of list

	state.RemoveSession(b.ID.Hex())

	snap := state.Snapshot()
	require.NotNil(t, snap.ActiveSession)
	assert.Equal(t, a.ID, snap.ActiveSession.ID, "active falls back to newest remaining")

	state.RemoveSession(a.ID.Hex())
	assert.Nil(t, state.Active(), "removing the last session clears active")
}

func TestState_RemoveInactiveKeepsActive(t *testing.T) {
	state := NewState(nil)

	a := newSession("a")
	b := newSession("b")
	state.AddSession(a)
	state.AddSession(b)

	state.RemoveSession(a.ID.Hex())

	require.NotNil(t, state.Active())
	assert.Equal(t, b.ID, state.Active().ID)
}

func TestState_UpdateActiveWritesBothViews(t *testing.T) {
	state := NewState(nil)
	sess := newSession("a card")
	state.AddSession(sess)

	jsx := "render(<Card />);"
	turns := []domain.ChatTurn{domain.NewAssistantTurn(Greeting)}
	state.UpdateActive(domain.SessionUpdate{CurrentJSX: &jsx, ChatMessages: &turns})

	snap := state.Snapshot()
	assert.Equal(t, jsx, snap.ActiveSession.CurrentJSX)
	assert.Equal(t, jsx, snap.Sessions[0].CurrentJSX)
	assert.Len(t, snap.Sessions[0].ChatMessages, 1)
}

func TestState_UpdateActiveNoActive(t *testing.T) {
	state := NewState(nil)
	jsx := "ignored"
	state.UpdateActive(domain.SessionUpdate{CurrentJSX: &jsx})
	assert.Nil(t, state.Active())
}

func TestState_MirrorRoundTrip(t *testing.T) {
	dir := t.TempDir()
	mirror := NewFileMirror(dir)

	state := NewState(mirror)
	sess := newSession("persisted")
	state.AddSession(sess)

	restored := NewState(NewFileMirror(dir))
	snap := restored.Snapshot()
	require.Len(t, snap.Sessions, 1)
	assert.Equal(t, sess.ID, snap.Sessions[0].ID)
	require.NotNil(t, snap.ActiveSession)
	assert.Equal(t, sess.ID, snap.ActiveSession.ID)
}

func TestState_CorruptMirrorStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	mirror := NewFileMirror(dir)
	require.NoError(t, mirror.Save(Snapshot{}))

	// Clobber the file with junk.
	state := NewState(mirror)
	state.AddSession(newSession("x"))

	path := filepath.Join(dir, "sessionsState.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	fresh := NewState(NewFileMirror(dir))
	assert.Empty(t, fresh.Snapshot().Sessions)
	assert.Nil(t, fresh.Snapshot().ActiveSession)
}
