package app

import (
	"fmt"
	"time"

	"github.com/hubastard/glyphquad/engine/core"
	"github.com/hubastard/glyphquad/engine/gfx/renderer2d"
)

// LayerStats shows frame rate, geometry and upload counters in the window
// title once per second.
type LayerStats struct {
	Title string
	r2d   *renderer2d.Renderer2D

	frames      int
	meshUploads int
	camUploads  int
	since       time.Time
}

func (l *LayerStats) OnAttach(e *core.Engine) error {
	l.since = time.Now()
	return nil
}

func (l *LayerStats) OnDetach(e *core.Engine)             {}
func (l *LayerStats) OnUpdate(e *core.Engine, dt float64) {}

func (l *LayerStats) OnRender(e *core.Engine, alpha float64) {
	st := l.r2d.Stats()
	l.frames++
	l.meshUploads += st.MeshUploads
	l.camUploads += st.UniformUploads

	elapsed := time.Since(l.since)
	if elapsed < time.Second {
		return
	}
	fps := float64(l.frames) / elapsed.Seconds()
	e.Window.SetTitle(statsTitle(l.Title, fps, st, l.meshUploads, l.camUploads))
	core.LogDebug("%.1f fps, %d draws, %d quads, %d mesh / %d camera uploads",
		fps, st.DrawCalls, st.QuadCount, l.meshUploads, l.camUploads)
	l.frames, l.meshUploads, l.camUploads = 0, 0, 0
	l.since = time.Now()
}

func (l *LayerStats) OnEvent(e *core.Engine, ev core.Event) bool { return false }

func statsTitle(title string, fps float64, st renderer2d.Statistics, meshUploads, camUploads int) string {
	return fmt.Sprintf("%s | %.0f fps | %d quads (%d verts, %d idx) | uploads mesh %d cam %d",
		title, fps, st.QuadCount, st.TotalVertexCount(), st.TotalIndexCount(), meshUploads, camUploads)
}
