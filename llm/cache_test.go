package llm

import (
	"reflect"
	"testing"
)

func countCacheMarkers(msgs []Message) int {
	count := 0
	for _, msg := range msgs {
		blocks, ok := msg.Content.(BlockContent)
		if !ok {
			continue
		}
		for _, block := range blocks {
			if block.CacheMarker() != nil {
				count++
			}
		}
	}
	return count
}

func TestWithLastMessageCached_MarksLastBlockOfLastMessage(t *testing.T) {
	msgs := []Message{
		NewBlockMessage(RoleUser, TextBlock{Text: "first"}, TextBlock{Text: "second"}),
		NewTextMessage(RoleAssistant, "reply"),
		NewBlockMessage(RoleUser,
			TextBlock{Text: "question"},
			NewImageBlock("image/jpeg", "ZGF0YQ=="),
		),
	}

	got := WithLastMessageCached(msgs)

	if len(got) != len(msgs) {
		t.Fatalf("Expected %d messages, got %d", len(msgs), len(got))
	}
	if n := countCacheMarkers(got); n != 1 {
		t.Fatalf("Expected exactly 1 cache marker, got %d", n)
	}
	last := got[2].Content.(BlockContent)
	marker := last[1].CacheMarker()
	if marker == nil {
		t.Fatal("Expected last block of last message to be marked")
	}
	if marker.Type != CacheControlEphemeral {
		t.Errorf("Expected ephemeral cache marker, got %q", marker.Type)
	}
	if last[0].CacheMarker() != nil {
		t.Error("Expected earlier block of last message to be unmarked")
	}
	if !reflect.DeepEqual(got[0], msgs[0]) || !reflect.DeepEqual(got[1], msgs[1]) {
		t.Error("Expected earlier messages to pass through unchanged")
	}
}

func TestWithLastMessageCached_DoesNotMutateInput(t *testing.T) {
	blocks := BlockContent{TextBlock{Text: "a"}, TextBlock{Text: "b"}}
	msgs := []Message{{Role: RoleUser, Content: blocks}}

	_ = WithLastMessageCached(msgs)

	if countCacheMarkers(msgs) != 0 {
		t.Error("Expected caller's messages to remain unmarked")
	}
	if blocks[1].CacheMarker() != nil {
		t.Error("Expected caller's block slice to remain unmarked")
	}
}

func TestWithLastMessageCached_PlainTextIsNoOp(t *testing.T) {
	msgs := []Message{
		NewBlockMessage(RoleUser, TextBlock{Text: "earlier"}),
		NewTextMessage(RoleUser, "latest"),
	}

	got := WithLastMessageCached(msgs)

	if n := countCacheMarkers(got); n != 0 {
		t.Errorf("Expected no cache markers, got %d", n)
	}
	if !reflect.DeepEqual(got, msgs) {
		t.Error("Expected messages to be unchanged in value")
	}
}

func TestWithLastMessageCached_SingleBlock(t *testing.T) {
	msgs := []Message{NewBlockMessage(RoleUser, TextBlock{Text: "only"})}

	got := WithLastMessageCached(msgs)

	blocks := got[0].Content.(BlockContent)
	if blocks[0].CacheMarker() == nil {
		t.Error("Expected single block to be marked")
	}
	if text := blocks[0].(TextBlock).Text; text != "only" {
		t.Errorf("Expected text to be preserved, got %q", text)
	}
}

func TestWithLastMessageCached_Empty(t *testing.T) {
	if got := WithLastMessageCached(nil); len(got) != 0 {
		t.Errorf("Expected empty result, got %d messages", len(got))
	}
	empty := []Message{{Role: RoleUser, Content: BlockContent{}}}
	if got := WithLastMessageCached(empty); countCacheMarkers(got) != 0 {
		t.Error("Expected empty block content to stay unmarked")
	}
}

func TestWithLastMessageCached_ClearsExistingMarkers(t *testing.T) {
	marker := &CacheControl{Type: CacheControlEphemeral}
	earlier := BlockContent{TextBlock{Text: "earlier", CacheControl: marker}}
	latest := BlockContent{
		TextBlock{Text: "a", CacheControl: marker},
		ImageBlock{MediaType: "image/png", Data: "ZGF0YQ==", CacheControl: marker},
		TextBlock{Text: "b"},
	}
	msgs := []Message{
		{Role: RoleUser, Content: earlier},
		NewTextMessage(RoleAssistant, "reply"),
		{Role: RoleUser, Content: latest},
	}

	got := WithLastMessageCached(msgs)

	if n := countCacheMarkers(got); n != 1 {
		t.Fatalf("Expected exactly 1 cache marker, got %d", n)
	}
	blocks := got[2].Content.(BlockContent)
	if blocks[2].CacheMarker() == nil {
		t.Error("Expected the trailing block to carry the marker")
	}
	if text := got[0].Content.(BlockContent)[0].(TextBlock).Text; text != "earlier" {
		t.Errorf("Expected text to be preserved, got %q", text)
	}

	if earlier[0].CacheMarker() == nil || latest[0].CacheMarker() == nil || latest[1].CacheMarker() == nil {
		t.Error("Expected caller's block slices to keep their markers")
	}
	if latest[2].CacheMarker() != nil {
		t.Error("Expected caller's trailing block to remain unmarked")
	}
}
