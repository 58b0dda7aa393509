package llm

// WithLastMessageCached returns a copy of msgs in which the last content block of the
// last message carries an ephemeral cache marker and no other block does. Markers the
// caller set on earlier blocks are cleared. Messages with plain text content have no
// block to mark. The input slice and its block slices are not modified.
func WithLastMessageCached(msgs []Message) []Message {
	if len(msgs) == 0 {
		return msgs
	}

	result := make([]Message, len(msgs))
	copy(result, msgs)

	for i := range result {
		blocks, ok := result[i].Content.(BlockContent)
		if !ok || len(blocks) == 0 {
			continue
		}
		result[i].Content = clearCacheMarkers(blocks)
	}

	last := len(result) - 1
	blocks, ok := result[last].Content.(BlockContent)
	if !ok || len(blocks) == 0 || blocks[len(blocks)-1] == nil {
		return result
	}

	marked := make(BlockContent, len(blocks))
	copy(marked, blocks)
	marked[len(marked)-1] = marked[len(marked)-1].withCacheMarker(&CacheControl{Type: CacheControlEphemeral})
	result[last].Content = marked
	return result
}

// clearCacheMarkers returns blocks without cache markers, copying the slice only
// when a marker has to be removed.
func clearCacheMarkers(blocks BlockContent) BlockContent {
	var cleared BlockContent
	for i, block := range blocks {
		if block == nil || block.CacheMarker() == nil {
			continue
		}
		if cleared == nil {
			cleared = make(BlockContent, len(blocks))
			copy(cleared, blocks)
		}
		cleared[i] = block.withCacheMarker(nil)
	}
	if cleared == nil {
		return blocks
	}
	return cleared
}
