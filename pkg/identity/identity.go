// Package identity derives stable widget identities. Widgets declared without
// a key are told apart by their container path, type, label and the order in
// which they occur during a run, so the same script produces the same IDs on
// every run. Keyed widgets depend only on type and key.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/apierror"
)

// ID identifies a widget across runs of the same script.
type ID string

const (
	idPrefix  = "$$WID"
	digestLen = 32
)

// Declaration holds the derivation inputs of one widget call.
type Declaration struct {
	// Path is the delta path of the enclosing container, outermost first.
	Path []int
	// Type is the widget type tag, e.g. "time_input".
	Type string
	Label string
	// Key is the caller supplied key. Empty means none.
	Key string
}

// Table is the per-run derivation arena. It counts keyless declarations per
// (path, type, label) and rejects duplicate IDs. Create one per run.
type Table struct {
	ordinals map[string]int
	seen     map[ID]struct{}
	order    []ID
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		ordinals: make(map[string]int),
		seen:     make(map[ID]struct{}),
	}
}

// Derive computes the identity for decl and records it. Deriving the same ID
// twice within one table fails with an IdentityCollision error.
func (t *Table) Derive(decl Declaration) (ID, error) {
	var id ID
	if decl.Key != "" {
		id = keyed(decl.Type, decl.Key)
	} else {
		slot := slotKey(decl)
		ordinal := t.ordinals[slot]
		t.ordinals[slot] = ordinal + 1
		id = positional(slot, ordinal)
	}

	if _, dup := t.seen[id]; dup {
		if decl.Key != "" {
			return "", apierror.New(apierror.KindIdentityCollision,
				"There are multiple `%s` widgets with the same key='%s'. To fix this, please make sure that the `key` argument is unique for each widget you create.",
				decl.Type, decl.Key)
		}
		return "", apierror.New(apierror.KindIdentityCollision,
			"There are multiple identical `%s` widgets with label '%s'. To fix this, please pass a unique `key` argument.",
			decl.Type, decl.Label)
	}
	t.seen[id] = struct{}{}
	t.order = append(t.order, id)
	return id, nil
}

// Seen returns the IDs derived so far, in declaration order.
func (t *Table) Seen() []ID {
	return append([]ID(nil), t.order...)
}

// Has reports whether id was derived in this table.
func (t *Table) Has(id ID) bool {
	_, ok := t.seen[id]
	return ok
}

// KeyOf returns the explicit key embedded in a keyed ID, or "" for
// positional IDs.
func KeyOf(id ID) string {
	rest, ok := strings.CutPrefix(string(id), idPrefix+"-")
	if !ok || len(rest) <= digestLen+1 || rest[digestLen] != '-' {
		return ""
	}
	return rest[digestLen+1:]
}

func keyed(typ, key string) ID {
	return ID(idPrefix + "-" + digest("key", typ, key) + "-" + key)
}

func positional(slot string, ordinal int) ID {
	return ID(idPrefix + "-" + digest("pos", slot, strconv.Itoa(ordinal)))
}

func slotKey(decl Declaration) string {
	parts := make([]string, len(decl.Path))
	for i, segment := range decl.Path {
		parts[i] = strconv.Itoa(segment)
	}
	return strings.Join(parts, ".") + "\x00" + decl.Type + "\x00" + decl.Label
}

func digest(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(strconv.Itoa(len(part))))
		h.Write([]byte{':'})
		h.Write([]byte(part))
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16])
}
