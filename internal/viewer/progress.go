package viewer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/logger"
)

// Loading stages reported while a session is built.
const (
	StageInit       = 0
	StageLoading    = 30
	StageAnimations = 60
	StageMaterials  = 80
	StageFinalizing = 90
	StageColors     = 95
	StageComplete   = 100
)

// Progress tracks how far loading has got. Percent is kept within 0..100
// and an empty status keeps the previous one.
type Progress struct {
	Percent int
	Status  string
	Loading bool

	// OnChange is called after every update, e.g. to retitle the window.
	OnChange func(percent int, status string)
}

// NewProgress creates a tracker at zero.
func NewProgress() *Progress {
	return &Progress{Status: "Initializing...", Loading: true}
}

// Update records a new percentage and optional status.
func (p *Progress) Update(percent int, status string) {
	p.Percent = min(100, max(0, percent))
	if status != "" {
		p.Status = status
	}
	logger.Debug("loading progress", zap.Int("percent", p.Percent), zap.String("status", p.Status))
	if p.OnChange != nil {
		p.OnChange(p.Percent, p.Status)
	}
}

// Start resets the tracker for a new load.
func (p *Progress) Start(status string) {
	p.Loading = true
	p.Update(StageInit, status)
}

// Finish marks loading complete.
func (p *Progress) Finish() {
	p.Loading = false
	p.Update(StageComplete, "Complete")
}
