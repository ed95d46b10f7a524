package store

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// IDField is the document key holding the id assigned by Insert.
const IDField = "$id"

// Document is a schema-less record. Values must be JSON encodable.
type Document map[string]any

// ID returns the id assigned to the document, or 0 if it was never inserted.
func (d Document) ID() int64 {
	switch id := d[IDField].(type) {
	case int64:
		return id
	case float64:
		return int64(id)
	case int:
		return int64(id)
	}
	return 0
}

// CollectionOptions configures a collection when it is first created.
type CollectionOptions struct {
	// Unique lists fields whose values may appear in at most one document.
	Unique []string `json:"unique,omitempty"`
	// Indices lists fields looked up by FindOne without scanning.
	Indices []string `json:"indices,omitempty"`
}

// Collection is a named group of documents. All operations are safe for
// concurrent use and mutations are applied one at a time.
type Collection struct {
	name      string
	options   CollectionOptions
	markDirty func()

	mu      sync.RWMutex
	nextID  int64
	docs    map[int64]Document
	indices map[string]map[string][]int64
}

func newCollection(name string, options CollectionOptions, markDirty func()) *Collection {
	c := &Collection{
		name:      name,
		options:   options,
		markDirty: markDirty,
		nextID:    1,
		docs:      make(map[int64]Document),
		indices:   make(map[string]map[string][]int64),
	}
	for _, field := range c.indexedFields() {
		c.indices[field] = make(map[string][]int64)
	}
	return c
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Options returns the options the collection was created with.
func (c *Collection) Options() CollectionOptions {
	return c.options
}

// Insert stores a deep copy of doc under a new id and returns the id.
// Integers are stored as int64 and other numbers as float64.
func (c *Collection) Insert(doc Document) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	stored, err := normalizeDocument(doc)
	if err != nil {
		return 0, err
	}
	stored[IDField] = id

	if err := c.checkUnique(stored, 0); err != nil {
		return 0, err
	}

	c.put(id, stored)
	c.nextID++
	c.markDirty()
	return id, nil
}

// Get returns a deep copy of the document with the given id.
func (c *Collection) Get(id int64) (Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, false
	}
	return cloneDocument(doc), true
}

// FindOne returns a deep copy of the first document whose field equals value.
// Indexed and unique fields are looked up directly.
func (c *Collection) FindOne(field string, value any) (Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	key := indexKey(value)
	if index, ok := c.indices[field]; ok {
		ids := index[key]
		if len(ids) == 0 {
			return nil, false
		}
		return cloneDocument(c.docs[ids[0]]), true
	}

	for _, id := range c.sortedIDs() {
		doc := c.docs[id]
		if v, ok := doc[field]; ok && indexKey(v) == key {
			return cloneDocument(doc), true
		}
	}
	return nil, false
}

// Find returns deep copies of the documents matching pred in id order. A nil pred
// matches every document.
func (c *Collection) Find(pred func(Document) bool) []Document {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var result []Document
	for _, id := range c.sortedIDs() {
		doc := cloneDocument(c.docs[id])
		if pred == nil || pred(doc) {
			result = append(result, doc)
		}
	}
	return result
}

// Update applies fn to a copy of the document and stores the result. The
// read, fn and write happen without any other mutation in between.
func (c *Collection) Update(id int64, fn func(Document) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.docs[id]
	if !ok {
		return fmt.Errorf("%s/%d: %w", c.name, id, ErrNotFound)
	}

	updated := cloneDocument(current)
	if err := fn(updated); err != nil {
		return err
	}
	updated, err := normalizeDocument(updated)
	if err != nil {
		return err
	}
	updated[IDField] = id

	if err := c.checkUnique(updated, id); err != nil {
		return err
	}

	c.unindex(current)
	c.put(id, updated)
	c.markDirty()
	return nil
}

// Remove deletes the document with the given id.
func (c *Collection) Remove(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		return fmt.Errorf("%s/%d: %w", c.name, id, ErrNotFound)
	}

	c.unindex(doc)
	delete(c.docs, id)
	c.markDirty()
	return nil
}

// Count returns the number of documents.
func (c *Collection) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.docs)
}

// snapshot returns the documents in id order for persisting.
func (c *Collection) snapshot() []Document {
	return c.Find(nil)
}

// load replaces the contents with documents read from the snapshot file.
func (c *Collection) load(docs []Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, doc := range docs {
		id := doc.ID()
		if id <= 0 {
			return fmt.Errorf("document in %s has no id", c.name)
		}
		doc[IDField] = id
		if err := c.checkUnique(doc, id); err != nil {
			return err
		}
		c.put(id, doc)
		if id >= c.nextID {
			c.nextID = id + 1
		}
	}
	return nil
}

func (c *Collection) put(id int64, doc Document) {
	c.docs[id] = doc
	for field, index := range c.indices {
		if v, ok := doc[field]; ok {
			key := indexKey(v)
			ids := append(index[key], id)
			slices.Sort(ids)
			index[key] = slices.Compact(ids)
		}
	}
}

func (c *Collection) unindex(doc Document) {
	id := doc.ID()
	for field, index := range c.indices {
		v, ok := doc[field]
		if !ok {
			continue
		}
		key := indexKey(v)
		ids := slices.DeleteFunc(index[key], func(other int64) bool { return other == id })
		if len(ids) == 0 {
			delete(index, key)
		} else {
			index[key] = ids
		}
	}
}

// checkUnique reports a violation if another document than self already
// holds one of doc's unique values.
func (c *Collection) checkUnique(doc Document, self int64) error {
	for _, field := range c.options.Unique {
		v, ok := doc[field]
		if !ok {
			continue
		}
		holders := c.indices[field][indexKey(v)]
		if slices.ContainsFunc(holders, func(id int64) bool { return id != self }) {
			return fmt.Errorf("%s.%s = %v: %w", c.name, field, v, ErrUniqueViolation)
		}
	}
	return nil
}

func (c *Collection) indexedFields() []string {
	fields := slices.Concat(c.options.Unique, c.options.Indices)
	slices.Sort(fields)
	return slices.Compact(fields)
}

func (c *Collection) sortedIDs() []int64 {
	return slices.Sorted(maps.Keys(c.docs))
}

