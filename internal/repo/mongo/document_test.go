package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/ssagnay/invitation/internal/domain/rsvp"
)

func TestDocumentFieldNames(t *testing.T) {
	c := rsvp.NewConfirmation("Maria Lopez", time.Now())

	doc, err := toDocument(c)
	if err != nil {
		t.Fatalf("toDocument: %v", err)
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"_id", "name", "event", "confirmedAt"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("stored document is missing %q: %v", key, m)
		}
	}

	if got := doc.confirmation().ID; got != c.ID {
		t.Fatalf("id did not survive the trip: %q vs %q", got, c.ID)
	}
}

func TestToDocumentRejectsNonObjectID(t *testing.T) {
	if _, err := toDocument(rsvp.Confirmation{ID: "not-hex"}); err == nil {
		t.Fatalf("expected error for a non ObjectID id")
	}
}
