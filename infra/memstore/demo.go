package memstore

import (
	"fmt"
	"time"

	"github.com/mathfra-rgb/cancelme-mvp/domain"
)

var demoCaptions = []struct {
	caption string
	name    string
	tags    []string
}{
	{"Monday standup ran for 90 minutes #travail", "neo", []string{"travail", "cringe"}},
	{"Finally beat the final boss on hard mode #gaming", "", []string{"gaming", "genius"}},
	{"Cafeteria served pizza with pineapple again", "lunchlady", []string{"food", "wtf"}},
	{"My commit message was just 'fix' and it fixed nothing #tech", "", []string{"tech", "lol"}},
	{"Went on vacation, came back to 400 unread messages #voyage", "wanderer", []string{"voyage"}},
	{"Prof asked who finished the homework. Silence. #ecole", "", []string{"ecole", "cringe"}},
	{"Match went to penalties and the stream lagged #sport", "ultra", []string{"sport", "wtf"}},
	{"Wrote a love letter in YAML #amour", "", []string{"amour", "tech", "lol"}},
}

// NewDemo returns a store filled with sample posts spread over the last
// five weeks.
func NewDemo(now func() time.Time) *Store {
	s := New(now)
	base := s.now()
	for i := 0; i < 48; i++ {
		d := demoCaptions[i%len(demoCaptions)]
		kind := domain.ReactionKinds[i%len(domain.ReactionKinds)]
		p := domain.Post{
			ID:          fmt.Sprintf("demo-%02d", i),
			Caption:     d.caption,
			DisplayName: d.name,
			Anonymous:   d.name == "",
			Tags:        d.tags,
			CreatedAt:   base.Add(-time.Duration(i*i) * 20 * time.Minute),
		}
		p = p.WithReaction(kind, (i*7)%23)
		p = p.WithView((i * 13) % 97)
		s.Seed(p)
	}
	return s
}
