package main

import (
	"io"
	"path/filepath"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
)

// progressBar adapts the engine's progress callback to a go-pretty tracker.
// The tracker is created on the first callback, when the total is known.
type progressBar struct {
	pw      progress.Writer
	tracker *progress.Tracker
}

func newProgressBar(w io.Writer) *progressBar {
	pw := progress.NewWriter()
	pw.SetOutputWriter(w)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(30)
	pw.SetMessageLength(28)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = true
	go pw.Render()
	return &progressBar{pw: pw}
}

func (b *progressBar) update(done, total int, path string) {
	if b.tracker == nil {
		b.tracker = &progress.Tracker{Message: "result files", Total: int64(total), Units: progress.UnitsDefault}
		b.pw.AppendTracker(b.tracker)
	}
	b.tracker.UpdateMessage(filepath.Base(path))
	b.tracker.SetValue(int64(done))
}

func (b *progressBar) stop() {
	if b.tracker != nil {
		b.tracker.MarkAsDone()
	}
	// Let the renderer flush the final state before stopping it.
	time.Sleep(150 * time.Millisecond)
	b.pw.Stop()
	for b.pw.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
}
