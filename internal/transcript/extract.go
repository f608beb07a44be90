package transcript

import "encoding/json"

// FileEdit is a (path, before, after) triple pulled out of a tool call.
// A missing side stays "": a creation diffs as all-added, a deletion as
// all-deleted.
type FileEdit struct {
	Path    string
	OldText string
	NewText string
}

// editFields names where one upstream schema variant keeps its edit
// payload. Input and result metadata are both valid sources; neither is
// treated as the only live one.
type editFields struct {
	fromMeta bool
	path     string
	oldKey   string
	newKey   string
}

// editStrategies is tried in order; the first strategy that yields at
// least one side wins.
var editStrategies = []editFields{
	{path: "file_path", oldKey: "old_string", newKey: "new_string"},
	{path: "path", oldKey: "oldText", newKey: "newText"},
	{fromMeta: true, path: "filePath", oldKey: "oldContent", newKey: "newContent"},
}

// ExtractFileEdit locates the before/after text pair in a tool call.
// It returns false when no strategy finds either side, in which case
// the record has no diff to show.
func ExtractFileEdit(tc *ToolCall) (FileEdit, bool) {
	if tc == nil {
		return FileEdit{}, false
	}
	for _, s := range editStrategies {
		raw := tc.Input
		if s.fromMeta {
			if tc.Result == nil {
				continue
			}
			raw = tc.Result.Meta
		}
		if len(raw) == 0 {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		oldText, hasOld := stringField(fields, s.oldKey)
		newText, hasNew := stringField(fields, s.newKey)
		if !hasOld && !hasNew {
			continue
		}
		path, _ := stringField(fields, s.path)
		return FileEdit{Path: path, OldText: oldText, NewText: newText}, true
	}
	return FileEdit{}, false
}

func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// ModifiedFiles collapses a transcript into one edit per file: the
// earliest old text paired with the latest new text, in first-touched
// order. This backs the modified-files tab.
func ModifiedFiles(msgs []Message) []FileEdit {
	byPath := make(map[string]*FileEdit)
	var order []string

	for i := range msgs {
		for _, tc := range msgs[i].ToolCalls() {
			edit, ok := ExtractFileEdit(tc)
			if !ok || edit.Path == "" {
				continue
			}
			if cur, seen := byPath[edit.Path]; seen {
				cur.NewText = edit.NewText
				continue
			}
			e := edit
			byPath[edit.Path] = &e
			order = append(order, edit.Path)
		}
	}

	edits := make([]FileEdit, 0, len(order))
	for _, p := range order {
		edits = append(edits, *byPath[p])
	}
	return edits
}
