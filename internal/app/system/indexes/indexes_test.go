package indexes

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestKeySig(t *testing.T) {
	got := keySig(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}})
	if got != "updated_at:-1, _id:1" {
		t.Errorf("keySig: got %q", got)
	}
}

func TestSameBoolPtr(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name string
		a, b *bool
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil and false", nil, &no, true},
		{"nil and true", nil, &yes, false},
		{"true and true", &yes, &yes, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := sameBoolPtr(tc.a, tc.b); got != tc.want {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestKVEntryIndexes_Named(t *testing.T) {
	for _, m := range KVEntryIndexes() {
		name, unique, sig := desired(m)
		if name == "" {
			t.Errorf("index %q has no name", sig)
		}
		if unique != nil && *unique {
			t.Errorf("index %q should not be unique", name)
		}
		if sig == "" {
			t.Errorf("index %q has no keys", name)
		}
	}
}
