package common

import "testing"

func TestDefaultKeyMap_HasCriticalBindings(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ToggleHints.Keys()) == 0 || km.ToggleHints.Keys()[0] != "?" {
		t.Fatalf("expected ? key binding for hints")
	}
	if len(km.ForceQuit.Keys()) == 0 || km.ForceQuit.Keys()[0] != "ctrl+c" {
		t.Fatalf("expected ctrl+c force quit binding")
	}
	if km.Report.Keys()[0] != "!" {
		t.Fatalf("expected ! for report, got %v", km.Report.Keys())
	}
}

func TestDefaultKeyMap_ReactionKeysInOrder(t *testing.T) {
	km := DefaultKeyMap()
	want := []string{"1", "2", "3", "4"}
	got := km.ReactionKeys()
	if len(got) != len(want) {
		t.Fatalf("expected %d reaction keys, got %d", len(want), len(got))
	}
	for i, b := range got {
		if b.Keys()[0] != want[i] {
			t.Fatalf("reaction key %d: expected %q, got %q", i, want[i], b.Keys()[0])
		}
	}
}

func TestDefaultKeyMap_NoDuplicateKeys(t *testing.T) {
	km := DefaultKeyMap()
	seen := map[string]string{}
	bindings := map[string][]string{
		"quit": km.Quit.Keys(), "refresh": km.Refresh.Keys(), "up": km.Up.Keys(),
		"down": km.Down.Keys(), "top": km.Top.Keys(), "open": km.Open.Keys(),
		"comment": km.Comment.Keys(), "commentEditor": km.CommentEditor.Keys(),
		"more": km.MoreComments.Keys(), "report": km.Report.Keys(),
		"showAnyway": km.ShowAnyway.Keys(), "sortNext": km.SortNext.Keys(),
		"sortPrev": km.SortPrev.Keys(), "tag": km.Tag.Keys(), "clearTag": km.ClearTag.Keys(),
		"tagNext": km.TagNext.Keys(), "newEditor": km.NewEditor.Keys(),
		"newInline": km.NewInline.Keys(), "media": km.Media.Keys(), "share": km.Share.Keys(),
		"openURL": km.OpenURL.Keys(), "name": km.Name.Keys(), "theme": km.Theme.Keys(),
		"hints": km.ToggleHints.Keys(),
	}
	for name, keys := range bindings {
		for _, k := range keys {
			if other, ok := seen[k]; ok {
				t.Fatalf("key %q bound to both %s and %s", k, other, name)
			}
			seen[k] = name
		}
	}
}
