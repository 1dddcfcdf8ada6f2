package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ssagnay/invitation/internal/domain/rsvp"
	"github.com/ssagnay/invitation/internal/observability"
)

const storeName = "mongo"

// CollectionSource yields the shared rsvps collection, connecting lazily.
type CollectionSource interface {
	Collection() (*mongo.Collection, error)
	Ping(ctx context.Context) error
}

type rsvpDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Name        string             `bson:"name"`
	Event       string             `bson:"event"`
	ConfirmedAt time.Time          `bson:"confirmedAt"`
}

func toDocument(c rsvp.Confirmation) (rsvpDocument, error) {
	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return rsvpDocument{}, fmt.Errorf("mongo: confirmation id %q: %w", c.ID, err)
	}

	return rsvpDocument{
		ID:          oid,
		Name:        c.Name,
		Event:       c.Event,
		ConfirmedAt: c.ConfirmedAt,
	}, nil
}

func (d rsvpDocument) confirmation() rsvp.Confirmation {
	return rsvp.Confirmation{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Event:       d.Event,
		ConfirmedAt: d.ConfirmedAt.UTC(),
	}
}

type RSVPRepo struct {
	source CollectionSource
	prom   *observability.Prom
}

func NewRSVPRepo(source CollectionSource, prom *observability.Prom) *RSVPRepo {
	return &RSVPRepo{
		source: source,
		prom:   prom,
	}
}

func (repo *RSVPRepo) observe(op string, fn func() error) error {
	if repo.prom != nil {
		return repo.prom.ObserveStore(storeName, op, fn)
	}
	return fn()
}

func (repo *RSVPRepo) Insert(ctx context.Context, c rsvp.Confirmation) error {
	doc, err := toDocument(c)
	if err != nil {
		return err
	}

	return repo.observe("rsvps.insert_one", func() error {
		coll, err := repo.source.Collection()
		if err != nil {
			return err
		}

		_, err = coll.InsertOne(ctx, doc)
		return err
	})
}

func (repo *RSVPRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := repo.observe("rsvps.count_documents", func() error {
		coll, err := repo.source.Collection()
		if err != nil {
			return err
		}

		total, err = coll.CountDocuments(ctx, bson.D{})
		return err
	})
	return total, err
}

func (repo *RSVPRepo) List(ctx context.Context, limit int) ([]rsvp.Confirmation, error) {
	var docs []rsvpDocument

	err := repo.observe("rsvps.find", func() error {
		coll, err := repo.source.Collection()
		if err != nil {
			return err
		}

		opts := options.Find().
			SetSort(bson.D{{Key: "confirmedAt", Value: -1}, {Key: "_id", Value: -1}}).
			SetLimit(int64(limit))

		cur, err := coll.Find(ctx, bson.D{}, opts)
		if err != nil {
			return err
		}

		return cur.All(ctx, &docs)
	})

	if err != nil {
		return nil, err
	}

	out := make([]rsvp.Confirmation, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.confirmation())
	}

	return out, nil
}

func (repo *RSVPRepo) Ping(ctx context.Context) error {
	return repo.source.Ping(ctx)
}
