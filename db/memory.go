package db

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store used by tests and local runs without a
// cluster. It understands equality and "$ne" filters, "$set" updates,
// projections and unique indexes.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: map[string]*memoryCollection{}}
}

func (s *MemoryStore) Collection(name string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{}
		s.collections[name] = c
	}
	return c
}

type memoryCollection struct {
	mu     sync.Mutex
	docs   []bson.M
	unique [][]string
}

func (c *memoryCollection) Find(ctx context.Context, filter bson.M, out interface{}, projection ...string) error {
	f, err := normalize(filter)
	if err != nil {
		return err
	}
	c.mu.Lock()
	matched := make([]bson.M, 0, len(c.docs))
	for _, doc := range c.docs {
		if matches(doc, f) {
			matched = append(matched, project(doc, projection))
		}
	}
	t, data, err := bson.MarshalValue(matched)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return bson.RawValue{Type: t, Value: data}.Unmarshal(out)
}

func (c *memoryCollection) FindOne(ctx context.Context, filter bson.M, out interface{}) error {
	f, err := normalize(filter)
	if err != nil {
		return err
	}
	c.mu.Lock()
	var raw []byte
	for _, doc := range c.docs {
		if matches(doc, f) {
			raw, err = bson.Marshal(doc)
			break
		}
	}
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if raw == nil {
		return ErrNoDocuments
	}
	return bson.Unmarshal(raw, out)
}

func (c *memoryCollection) InsertOne(ctx context.Context, doc interface{}) (*InsertResult, error) {
	d, err := normalize(doc)
	if err != nil {
		return nil, err
	}
	if _, ok := d["_id"]; !ok {
		d["_id"] = primitive.NewObjectID()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkUnique(d); err != nil {
		return nil, err
	}
	c.docs = append(c.docs, d)
	return &InsertResult{Acknowledged: true, InsertedID: d["_id"]}, nil
}

func (c *memoryCollection) UpdateOne(ctx context.Context, filter, update bson.M, upsert bool) (*UpdateResult, error) {
	f, err := normalize(filter)
	if err != nil {
		return nil, err
	}
	set, err := setFields(update)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, doc := range c.docs {
		if !matches(doc, f) {
			continue
		}
		modified := int64(0)
		for k, v := range set {
			if !reflect.DeepEqual(doc[k], v) {
				doc[k] = v
				modified = 1
			}
		}
		return &UpdateResult{Acknowledged: true, MatchedCount: 1, ModifiedCount: modified}, nil
	}
	if !upsert {
		return &UpdateResult{Acknowledged: true}, nil
	}
	doc := bson.M{}
	for k, v := range f {
		if _, isExpr := operand(v, "$ne"); !isExpr && !strings.HasPrefix(k, "$") {
			doc[k] = v
		}
	}
	for k, v := range set {
		doc[k] = v
	}
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	if err := c.checkUnique(doc); err != nil {
		return nil, err
	}
	c.docs = append(c.docs, doc)
	return &UpdateResult{Acknowledged: true, UpsertedCount: 1, UpsertedID: doc["_id"]}, nil
}

func (c *memoryCollection) DeleteOne(ctx context.Context, filter bson.M) (*DeleteResult, error) {
	f, err := normalize(filter)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, doc := range c.docs {
		if matches(doc, f) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return &DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return &DeleteResult{Acknowledged: true}, nil
}

func (c *memoryCollection) EnsureUniqueIndex(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.unique {
		if reflect.DeepEqual(existing, keys) {
			return nil
		}
	}
	c.unique = append(c.unique, append([]string(nil), keys...))
	return nil
}

// caller holds c.mu
func (c *memoryCollection) checkUnique(doc bson.M) error {
	for _, keys := range c.unique {
		key := bson.M{}
		for _, k := range keys {
			key[k] = doc[k]
		}
		for _, existing := range c.docs {
			if matches(existing, key) {
				return fmt.Errorf("%w: index %v", ErrDuplicateKey, keys)
			}
		}
	}
	return nil
}

// normalize round-trips v through BSON so structs, maps and literal values
// compare the same way stored documents do.
func normalize(v interface{}) (bson.M, error) {
	if v == nil {
		return bson.M{}, nil
	}
	if m, ok := v.(bson.M); ok && m == nil {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := bson.M{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func setFields(update bson.M) (bson.M, error) {
	u, err := normalize(update)
	if err != nil {
		return nil, err
	}
	for k := range u {
		if k != "$set" {
			return nil, fmt.Errorf("db: memory store does not support update operator %q", k)
		}
	}
	switch set := u["$set"].(type) {
	case bson.M:
		return set, nil
	case bson.D:
		return set.Map(), nil
	}
	return bson.M{}, nil
}

func matches(doc, filter bson.M) bool {
	for k, want := range filter {
		if ne, ok := operand(want, "$ne"); ok {
			if reflect.DeepEqual(doc[k], ne) {
				return false
			}
			continue
		}
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

// operand returns the argument of a single-operator expression like {"$ne": v}.
func operand(v interface{}, op string) (interface{}, bool) {
	switch expr := v.(type) {
	case bson.M:
		arg, ok := expr[op]
		return arg, ok && len(expr) == 1
	case bson.D:
		if len(expr) == 1 && expr[0].Key == op {
			return expr[0].Value, true
		}
	}
	return nil, false
}

func project(doc bson.M, fields []string) bson.M {
	if len(fields) == 0 {
		return doc
	}
	out := bson.M{"_id": doc["_id"]}
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}
