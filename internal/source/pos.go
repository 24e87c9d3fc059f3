package source

// Pos is a 1-based line/column position used for rendering.
type Pos struct {
	Line uint32
	Col  uint32
}

// Resolve maps the span's endpoints to line/column positions by scanning the
// file content. Rendering-path only; analysis never needs line numbers.
func (fs *FileSet) Resolve(sp Span) (start, end Pos) {
	f := fs.Get(sp.File)
	if f == nil {
		return Pos{Line: 1, Col: 1}, Pos{Line: 1, Col: 1}
	}
	start = posAt(f.Content, sp.Start)
	end = posAt(f.Content, sp.End)
	return start, end
}

// LineText returns the full text of the 1-based line, without the newline.
func (fs *FileSet) LineText(id FileID, line uint32) string {
	f := fs.Get(id)
	if f == nil || line == 0 {
		return ""
	}
	cur := uint32(1)
	begin := 0
	for i := 0; i < len(f.Content); i++ {
		if cur == line {
			end := i
			for end < len(f.Content) && f.Content[end] != '\n' {
				end++
			}
			return string(f.Content[begin:end])
		}
		if f.Content[i] == '\n' {
			cur++
			begin = i + 1
		}
	}
	if cur == line {
		return string(f.Content[begin:])
	}
	return ""
}

func posAt(content []byte, off uint32) Pos {
	line := uint32(1)
	col := uint32(1)
	limit := int(off)
	if limit > len(content) {
		limit = len(content)
	}
	for i := 0; i < limit; i++ {
		if content[i] == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return Pos{Line: line, Col: col}
}
