package desktop

import (
	"github.com/1broseidon/mingde/internal/geom"
	"github.com/1broseidon/mingde/internal/surface"
	"github.com/1broseidon/mingde/internal/theme"
	"github.com/1broseidon/mingde/internal/widget"
	"github.com/1broseidon/mingde/internal/wm"
)

var fileViewerSize = geom.Size{Width: 400, Height: 300}

// FileViewer reads, writes and removes files in the virtual file system.
// Every access goes through the gate, so the first one usually waits for
// approval and the answer arrives later as RequestCompleted.
type FileViewer struct {
	win    *Window
	path   *widget.TextInput
	editor *widget.TextInput
	status *widget.Label
	body   *widget.Paragraph
	open   *widget.Button
	remove *widget.Button
	save   *widget.Button
	scroll wm.Scroller
	focus  wm.FocusCycler
}

func NewFileViewer() *Window {
	return NewWindow("file-viewer", "File Viewer", fileViewerSize, &FileViewer{})
}

func (f *FileViewer) Mount(w *Window) {
	f.win = w
	f.path = widget.NewTextInput("/path/to/file", geom.Rect{})
	f.path.OnSubmit = func(string) { f.Open() }
	f.editor = widget.NewTextInput("content to save", geom.Rect{})
	f.editor.OnSubmit = func(string) { f.Save() }
	f.status = widget.NewLabel("", geom.Rect{}, surface.FontNormal)
	f.status.Colour = widget.ColourAlt
	f.body = widget.NewParagraph("", geom.Rect{}, surface.FontNormal)

	f.open = widget.NewButton("Open", geom.Rect{}, f.Open)
	f.remove = widget.NewButton("Delete", geom.Rect{}, f.Delete)
	f.save = widget.NewButton("Save", geom.Rect{}, f.Save)
	content(w).Add(f.path, f.open, f.remove, f.editor, f.save, f.status, f.body)
	f.Relayout(w.Client())
}

// Relayout places the controls in client.
func (f *FileViewer) Relayout(client geom.Rect) {
	const pad, row, btn = 8, 22, 70
	x, y, w := client.X+pad, client.Y+pad, client.Width-2*pad
	f.path.SetRect(geom.R(x, y, w-2*(btn+pad), row))
	f.editor.SetRect(geom.R(x, y+row+pad, w-btn-pad, row))
	f.open.SetRect(geom.R(x+w-2*btn-pad, y, btn, row))
	f.remove.SetRect(geom.R(x+w-btn, y, btn, row))
	f.save.SetRect(geom.R(x+w-btn, y+row+pad, btn, row))
	top := y + 2*(row+pad)
	f.status.SetRect(geom.R(x, top, w, surface.LineHeight(surface.FontNormal)))
	top += surface.LineHeight(surface.FontNormal) + pad
	f.body.SetRect(geom.R(x, top, w, client.Bottom()-top-pad))
	f.scroll.Viewport = f.body.Rect().Height
}

func (f *FileViewer) Status() string { return f.status.Text }
func (f *FileViewer) Text() string   { return f.body.Text }

// Path and Editor expose the inputs for scripting and tests.
func (f *FileViewer) Path() *widget.TextInput   { return f.path }
func (f *FileViewer) Editor() *widget.TextInput { return f.editor }

func (f *FileViewer) Open() {
	f.show(f.win.Request(wm.ReadFileSystem{Permission: wm.PermissionReadAll, Path: f.path.Value()}), wm.KindReadFileSystem)
}

func (f *FileViewer) Save() {
	f.show(f.win.Request(wm.WriteFileSystem{Permission: wm.PermissionWriteAll, Path: f.path.Value(), Content: f.editor.Value()}), wm.KindWriteFileSystem)
}

func (f *FileViewer) Delete() {
	f.show(f.win.Request(wm.RemoveFileSystem{Permission: wm.PermissionWriteAll, Path: f.path.Value()}), wm.KindRemoveFileSystem)
}

// show reflects an outcome, immediate or delivered later, in the window.
func (f *FileViewer) show(out wm.Outcome, kind wm.RequestKind) {
	defer f.win.MarkDirty()
	switch out.Status {
	case wm.StatusInvalid:
		f.path.Valid = widget.Invalid
		f.status.Text = out.Reason
		return
	case wm.StatusPending:
		f.status.Text = "Waiting for approval"
		return
	case wm.StatusDropped:
		f.status.Text = "Permission denied"
		return
	}
	f.path.Valid = widget.Valid
	switch kind {
	case wm.KindReadFileSystem:
		if !out.Found {
			f.path.Valid = widget.Invalid
			f.status.Text = "No such file"
			return
		}
		f.body.Text = out.Content
		f.scroll.Offset = 0
		f.body.Offset = 0
		f.status.Text = f.path.Value()
	case wm.KindWriteFileSystem:
		f.status.Text = result(out.OK, "Saved", "Could not save")
	case wm.KindRemoveFileSystem:
		f.status.Text = result(out.OK, "Removed", "No such file")
	}
}

func result(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}

func (f *FileViewer) Paint(s surface.Surface, info theme.Info, _ geom.Rect) {
	f.scroll.SetContent(f.body.Height(s))
	f.body.Offset = f.scroll.Offset
	s.SetStroke(info.BorderRightBottom)
	r := f.body.Rect()
	s.StrokeRect(geom.R(r.X-2, r.Y-2, r.Width+4, r.Height+4))
}

func (f *FileViewer) Handle(msg wm.Message) bool {
	items := wm.Focusables(f.win.Components())
	switch m := msg.(type) {
	case wm.RequestCompleted:
		f.show(m.Outcome, m.Request.Kind())
		return true
	case wm.MouseDown:
		for _, in := range []*widget.TextInput{f.path, f.editor} {
			if in.Rect().Contains(m.Point) {
				return f.focus.FocusOn(items, in)
			}
		}
		return false
	}
	if handled, changed := f.focus.Handle(items, msg); handled {
		return changed
	}
	if _, changed := f.scroll.Handle(msg); changed {
		f.body.Offset = f.scroll.Offset
		return true
	}
	return false
}
