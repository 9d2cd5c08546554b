package delivery

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"value-helper/models"
	"value-helper/utils"
)

// Directive kinds
const (
	DirectiveShareFiles = "share_files"
	DirectiveShareText  = "share_text"
	DirectiveClipboard  = "clipboard"
	DirectiveDownload   = "download"
)

// ReportedPlatform is a browser platform seen from the server. Capabilities come
// from the client; actions are recorded as directives the client carries out. A
// client that already tried a strategy and failed lists it in Failed, so the chain
// moves past it.
type ReportedPlatform struct {
	caps      models.ClientCapabilities
	failed    []string
	userAgent string
	fileURL   string

	mu         sync.Mutex
	directives []models.Directive
}

var _ Platform = (*ReportedPlatform)(nil)

// NewReportedPlatform creates a platform for one request. fileURL is where the client
// can fetch the rendered image.
func NewReportedPlatform(req models.DeliveryRequest, userAgent, fileURL string) *ReportedPlatform {
	return &ReportedPlatform{
		caps:      req.Capabilities,
		failed:    req.Failed,
		userAgent: userAgent,
		fileURL:   fileURL,
	}
}

func (p *ReportedPlatform) CanShare() bool      { return p.caps.CanShare }
func (p *ReportedPlatform) CanShareFiles() bool { return p.caps.CanShareFiles }

func (p *ReportedPlatform) Share(ctx context.Context, payload SharePayload) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if payload.File != nil {
		if err := p.reportedFailure(StrategyNativeFileShare); err != nil {
			return err
		}
		p.push(models.Directive{Kind: DirectiveShareFiles, Title: payload.Title, Text: payload.Text, FileURL: p.fileURL, FileName: payload.File.Name})
		return nil
	}
	if err := p.reportedFailure(StrategyNativeTextShare); err != nil {
		return err
	}
	p.push(models.Directive{Kind: DirectiveShareText, Title: payload.Title, Text: payload.Text, URL: payload.URL})
	return nil
}

func (p *ReportedPlatform) CanWriteClipboard() bool { return p.caps.CanWriteClipboard }

func (p *ReportedPlatform) WriteClipboard(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.reportedFailure(StrategyClipboardLink); err != nil {
		return err
	}
	p.push(models.Directive{Kind: DirectiveClipboard, Text: text})
	return nil
}

func (p *ReportedPlatform) PixelDensity() float64 {
	if p.caps.PixelDensity <= 0 {
		return 1
	}
	return p.caps.PixelDensity
}

// IsMobile uses the client's own classification when given, else the User-Agent
func (p *ReportedPlatform) IsMobile() bool {
	if p.caps.Mobile != nil {
		return *p.caps.Mobile
	}
	return utils.IsMobileUserAgent(p.userAgent)
}

func (p *ReportedPlatform) SaveFile(ctx context.Context, name string, _ []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := p.reportedFailure(DirectiveDownload); err != nil {
		return "", err
	}
	p.push(models.Directive{Kind: DirectiveDownload, FileURL: p.fileURL, FileName: name})
	return p.fileURL, nil
}

// Directives returns the actions recorded so far
func (p *ReportedPlatform) Directives() []models.Directive {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.directives)
}

func (p *ReportedPlatform) push(d models.Directive) {
	p.mu.Lock()
	p.directives = append(p.directives, d)
	p.mu.Unlock()
}

func (p *ReportedPlatform) reportedFailure(name string) error {
	if slices.Contains(p.failed, name) {
		return fmt.Errorf("client reported %s as failed", name)
	}
	return nil
}
