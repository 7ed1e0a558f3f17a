package x11

import (
	"fmt"

	"github.com/1broseidon/mingde/internal/geom"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display
type Monitor struct {
	Name   string
	Bounds geom.Rect
}

// Monitors lists the active CRTCs using XRandR.
func (c *Connection) Monitors() ([]Monitor, error) {
	conn := c.XUtil.Conn()
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}
	resources, err := randr.GetScreenResources(conn, c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(conn, crtc, resources.ConfigTimestamp).Reply()
		if err != nil || info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}
		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(conn, info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}
		monitors = append(monitors, Monitor{
			Name:   name,
			Bounds: geom.R(int(info.X), int(info.Y), int(info.Width), int(info.Height)),
		})
	}
	return monitors, nil
}

// PlacementArea returns the part of the monitor under the pointer that
// windows may use, falling back to the whole root window.
func (c *Connection) PlacementArea() geom.Rect {
	screen := c.XUtil.Screen()
	area := geom.R(0, 0, int(screen.WidthInPixels), int(screen.HeightInPixels))

	if monitors, err := c.Monitors(); err == nil && len(monitors) > 0 {
		area = monitors[0].Bounds
		if p, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
			area = monitorAt(monitors, geom.Point{X: int(p.RootX), Y: int(p.RootY)}, area)
		}
	}
	if wa, err := ewmh.WorkareaGet(c.XUtil); err == nil && len(wa) > 0 {
		work := geom.R(wa[0].X, wa[0].Y, int(wa[0].Width), int(wa[0].Height))
		if in := area.Intersect(work); !in.Empty() {
			area = in
		}
	}
	return area
}

func monitorAt(monitors []Monitor, p geom.Point, fallback geom.Rect) geom.Rect {
	for _, m := range monitors {
		if m.Bounds.Contains(p) {
			return m.Bounds
		}
	}
	return fallback
}

// place centres a window of size in area, shrinking it to fit.
func place(size geom.Size, area geom.Rect) geom.Rect {
	w := min(size.Width, area.Width)
	h := min(size.Height, area.Height)
	return geom.R(area.X+(area.Width-w)/2, area.Y+(area.Height-h)/2, w, h)
}
