package sheet

// Kind identifies one of the sheet's variable-length collections.
type Kind string

const (
	KindInventory       Kind = "inventory"
	KindEnhancements    Kind = "enhancements"
	KindMasteries       Kind = "masteries"
	KindMindAlterations Kind = "mindAlterations"
	KindMindBreaks      Kind = "mindBreaks"
)

// Kinds lists every collection kind.
var Kinds = []Kind{KindInventory, KindEnhancements, KindMasteries, KindMindAlterations, KindMindBreaks}

// Item is one entry in a collection. Which fields are meaningful depends on
// the collection kind: inventory, mind alterations and mind breaks use
// Name+Desc, enhancements use Name+Cost+Item+Effect, masteries use
// Name+Effect. The remaining fields stay blank.
type Item struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Desc   string `json:"desc,omitempty"`
	Cost   string `json:"cost,omitempty"`
	Item   string `json:"item,omitempty"`
	Effect string `json:"effect,omitempty"`
}

// Collection is a variable-length item list with a floor of one entry.
type Collection struct {
	Kind  Kind    `json:"kind"`
	Items []*Item `json:"items"`
}

func newCollection(kind Kind, newID func() string) *Collection {
	return &Collection{
		Kind:  kind,
		Items: []*Item{{ID: newID()}},
	}
}

// Add appends a blank item and returns it.
func (c *Collection) Add(id string) *Item {
	item := &Item{ID: id}
	c.Items = append(c.Items, item)
	return item
}

// Remove deletes the item with the given ID. Deleting the last remaining
// item is refused silently; the return value reports whether anything was
// removed.
func (c *Collection) Remove(id string) bool {
	if len(c.Items) <= 1 {
		return false
	}
	for i, item := range c.Items {
		if item.ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the item with the given ID, or nil.
func (c *Collection) Find(id string) *Item {
	for _, item := range c.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// Replace swaps the collection's contents for the given items, restoring the
// one-blank-item floor when the list is empty.
func (c *Collection) Replace(items []*Item, newID func() string) {
	if len(items) == 0 {
		c.Items = []*Item{{ID: newID()}}
		return
	}
	c.Items = items
}

func (c *Collection) clone() *Collection {
	out := &Collection{
		Kind:  c.Kind,
		Items: make([]*Item, len(c.Items)),
	}
	for i, item := range c.Items {
		itemCopy := *item
		out.Items[i] = &itemCopy
	}
	return out
}
