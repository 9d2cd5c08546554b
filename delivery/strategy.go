package delivery

import (
	"context"
	"fmt"
)

// Outcome is the uniform result of one strategy attempt
type Outcome int

const (
	// Success ends the chain
	Success Outcome = iota
	// Continue means the strategy does not apply here; the next one is tried
	Continue
	// Fail means the strategy applied but its platform call failed; the next one is tried
	Fail
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Continue:
		return "continue"
	case Fail:
		return "fail"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Strategy names
const (
	StrategyNativeFileShare = "native_file_share"
	StrategyNativeTextShare = "native_text_share"
	StrategyClipboardLink   = "clipboard_link"
	StrategyManual          = "manual_instructions"
)

// User-facing messages
const (
	MessageFileShared = "Shared!"
	MessageTextShared = "Shared!\n\nTo keep the image, long-press the preview below and choose \"Save image\"."
	MessageLinkCopied = "Share link copied to the clipboard!\n\nTo save the image, long-press it and choose \"Save to Photos\"."
	MessageManual     = "Copy the page link to share it manually, and long-press the image below to save it."
)

// Request is everything a strategy may deliver
type Request struct {
	Image    []byte
	FileName string
	Link     string
	Title    string
	Text     string
}

// Result is returned by Strategy.Attempt
type Result struct {
	Outcome Outcome
	Message string
	Err     error
}

// Error is a failed strategy attempt
type Error struct {
	Strategy string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Strategy, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Strategy is one link of the delivery chain
type Strategy interface {
	Name() string
	Attempt(ctx context.Context, platform Platform, req Request) Result
}

// DefaultStrategies returns the chain in priority order
func DefaultStrategies() []Strategy {
	return []Strategy{
		NativeFileShare{},
		NativeTextShare{},
		ClipboardLinkFallback{},
		ManualInstructionOnly{},
	}
}

func failed(strategy string, err error) Result {
	return Result{Outcome: Fail, Err: &Error{Strategy: strategy, Err: err}}
}

// NativeFileShare shares the image bytes through the native share sheet
type NativeFileShare struct{}

func (NativeFileShare) Name() string { return StrategyNativeFileShare }

func (s NativeFileShare) Attempt(ctx context.Context, platform Platform, req Request) Result {
	if !platform.CanShare() || !platform.CanShareFiles() {
		return Result{Outcome: Continue}
	}
	err := platform.Share(ctx, SharePayload{
		Title: req.Title,
		Text:  req.Text,
		File:  &File{Name: req.FileName, MIMEType: "image/png", Data: req.Image},
	})
	if err != nil {
		return failed(s.Name(), err)
	}
	return Result{Outcome: Success, Message: MessageFileShared}
}

// NativeTextShare shares the link when the share sheet cannot take files,
// then asks the user to save the preview by hand.
type NativeTextShare struct{}

func (NativeTextShare) Name() string { return StrategyNativeTextShare }

func (s NativeTextShare) Attempt(ctx context.Context, platform Platform, req Request) Result {
	// a platform that can share files but just failed to goes straight to the clipboard
	if !platform.CanShare() || platform.CanShareFiles() {
		return Result{Outcome: Continue}
	}
	text := req.Text
	if req.Link != "" {
		text += "\n\n" + req.Link
	}
	if err := platform.Share(ctx, SharePayload{Title: req.Title, Text: text, URL: req.Link}); err != nil {
		return failed(s.Name(), err)
	}
	return Result{Outcome: Success, Message: MessageTextShared}
}

// ClipboardLinkFallback copies the link and tells the user to save the image manually
type ClipboardLinkFallback struct{}

func (ClipboardLinkFallback) Name() string { return StrategyClipboardLink }

func (s ClipboardLinkFallback) Attempt(ctx context.Context, platform Platform, req Request) Result {
	if !platform.CanWriteClipboard() || req.Link == "" {
		return Result{Outcome: Continue}
	}
	if err := platform.WriteClipboard(ctx, req.Link); err != nil {
		return failed(s.Name(), err)
	}
	return Result{Outcome: Success, Message: MessageLinkCopied}
}

// ManualInstructionOnly only informs; it cannot fail
type ManualInstructionOnly struct{}

func (ManualInstructionOnly) Name() string { return StrategyManual }

func (ManualInstructionOnly) Attempt(context.Context, Platform, Request) Result {
	return Result{Outcome: Success, Message: MessageManual}
}
