// Package edits holds the interactive adjustment state of one generated asset
// and turns it into the normalized payload the backend accepts.
package edits

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"aicreat-gateway/internal/creative"
	"aicreat-gateway/internal/geometry"
	"aicreat-gateway/internal/prompt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	MinCropArea       = 10
	MaxCropArea       = 100
	MinSaturation     = -100
	MaxSaturation     = 100
	DefaultFontSize   = 24
	DefaultFontFamily = "Inter"
	DefaultTextColor  = "#FFFFFF"
	DefaultLogoAlpha  = 1.0
)

var (
	ErrNoAsset         = errors.New("edits: no asset loaded")
	ErrOverlayNotFound = errors.New("edits: overlay not found")
	ErrOutOfRange      = errors.New("edits: value out of range")
)

// AssetClient is the part of the backend an edit session talks to.
type AssetClient interface {
	GetGeneratedAsset(ctx context.Context, assetID string) (*creative.GeneratedAsset, error)
	ApplyEdits(ctx context.Context, assetID string, edits creative.EditRequest) (*creative.GeneratedAsset, error)
}

// TextOverlay is text placed on the preview, in display pixels.
type TextOverlay struct {
	ID         string  `json:"id"`
	Text       string  `json:"text"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	FontSize   float64 `json:"font_size"`
	FontFamily string  `json:"font_family"`
	Color      string  `json:"color"`
}

// LogoOverlay is an image placed on the preview, in display pixels.
type LogoOverlay struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Opacity float64 `json:"opacity"`
	Source  string  `json:"source"`
}

type Options struct {
	// DisplayWidth is the preview width the UI renders the asset at.
	DisplayWidth float64
	Logger       *zerolog.Logger
}

// Session is safe for concurrent use.
type Session struct {
	client       AssetClient
	prompter     prompt.Prompter
	displayWidth float64
	logger       zerolog.Logger

	mu         sync.Mutex
	asset      *creative.GeneratedAsset
	crop       geometry.Rect
	cropArea   int
	saturation int
	texts      []TextOverlay
	logos      []LogoOverlay
	dirty      bool
	submitted  creative.EditRequest
}

func NewSession(client AssetClient, prompter prompt.Prompter, opts Options) *Session {
	width := opts.DisplayWidth
	if width <= 0 {
		width = geometry.DefaultDisplayWidth
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Session{
		client:       client,
		prompter:     prompter,
		displayWidth: width,
		logger:       logger.With().Str("component", "edits").Logger(),
		cropArea:     MaxCropArea,
	}
}

// Load fetches an asset and resets the session to it.
func (s *Session) Load(ctx context.Context, assetID string) error {
	if assetID == "" {
		return creative.ErrMissingID
	}
	var asset *creative.GeneratedAsset
	err := creative.RetryWithBackoff(ctx, func() error {
		var err error
		asset, err = s.client.GetGeneratedAsset(ctx, assetID)
		return err
	}, 3)
	if err != nil {
		return fmt.Errorf("failed to load asset %s: %w", assetID, err)
	}
	return s.Open(asset)
}

// Open resets the session to an asset the caller already holds.
func (s *Session) Open(asset *creative.GeneratedAsset) error {
	if asset == nil {
		return ErrNoAsset
	}
	size := asset.Dimensions.Size()
	if !size.Valid() {
		return fmt.Errorf("asset %s: %w", asset.ID, geometry.ErrInvalidDimensions)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.asset = asset
	s.resetLocked()
	return nil
}

func (s *Session) resetLocked() {
	s.crop = s.frameLocked()
	s.cropArea = MaxCropArea
	s.saturation = 0
	s.texts = nil
	s.logos = nil
	s.dirty = false
}

// frameLocked is the whole asset in display pixels.
func (s *Session) frameLocked() geometry.Rect {
	frame, err := geometry.ToDisplay(s.asset.Dimensions.Size().Frame(), s.asset.Dimensions.Size(), s.displayWidth)
	if err != nil {
		return geometry.Rect{}
	}
	return frame
}

// Asset returns the asset being edited.
func (s *Session) Asset() *creative.GeneratedAsset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.asset
}

func (s *Session) DisplayWidth() float64 {
	return s.displayWidth
}

func (s *Session) Crop() geometry.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.crop
}

func (s *Session) CropArea() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cropArea
}

func (s *Session) Saturation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saturation
}

func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Session) TextOverlays() []TextOverlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TextOverlay(nil), s.texts...)
}

func (s *Session) LogoOverlays() []LogoOverlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]LogoOverlay(nil), s.logos...)
}

// SetCrop replaces the crop box, given in display pixels.
func (s *Session) SetCrop(r geometry.Rect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset == nil {
		return ErrNoAsset
	}
	if !s.crop.EqualApprox(r, 1e-9) {
		s.crop = r
		s.dirty = true
	}
	return nil
}

// SetCropArea sizes the crop box to percent of the full frame, keeping its
// center where it is as far as the frame allows.
func (s *Session) SetCropArea(percent int) error {
	if percent < MinCropArea || percent > MaxCropArea {
		return fmt.Errorf("crop area %d: %w", percent, ErrOutOfRange)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset == nil {
		return ErrNoAsset
	}

	frame := s.frameLocked()
	w := frame.Width * float64(percent) / 100
	h := frame.Height * float64(percent) / 100
	c := s.crop.Center()
	x := min(max(c.X-w/2, 0), frame.Width-w)
	y := min(max(c.Y-h/2, 0), frame.Height-h)
	next := geometry.NewRect(x, y, w, h)

	if percent != s.cropArea || !s.crop.EqualApprox(next, 1e-9) {
		s.dirty = true
	}
	s.cropArea = percent
	s.crop = next
	return nil
}

// SetSaturation takes the slider value in [-100, 100].
func (s *Session) SetSaturation(value int) error {
	if value < MinSaturation || value > MaxSaturation {
		return fmt.Errorf("saturation %d: %w", value, ErrOutOfRange)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset == nil {
		return ErrNoAsset
	}
	if value != s.saturation {
		s.saturation = value
		s.dirty = true
	}
	return nil
}

// AddText places text at (x, y) in display pixels and returns its id.
func (s *Session) AddText(text string, x, y float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset == nil {
		return "", ErrNoAsset
	}
	overlay := TextOverlay{
		ID:         uuid.NewString(),
		Text:       text,
		X:          x,
		Y:          y,
		FontSize:   DefaultFontSize,
		FontFamily: DefaultFontFamily,
		Color:      DefaultTextColor,
	}
	s.texts = append(s.texts, overlay)
	s.dirty = true
	return overlay.ID, nil
}

// UpdateText replaces an existing text overlay, keeping its id.
func (s *Session) UpdateText(overlay TextOverlay) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.texts {
		if s.texts[i].ID == overlay.ID {
			s.texts[i] = overlay
			s.dirty = true
			return nil
		}
	}
	return fmt.Errorf("text %s: %w", overlay.ID, ErrOverlayNotFound)
}

func (s *Session) MoveText(id string, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.texts {
		if s.texts[i].ID == id {
			s.texts[i].X, s.texts[i].Y = x, y
			s.dirty = true
			return nil
		}
	}
	return fmt.Errorf("text %s: %w", id, ErrOverlayNotFound)
}

func (s *Session) RemoveText(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.texts {
		if s.texts[i].ID == id {
			s.texts = append(s.texts[:i], s.texts[i+1:]...)
			s.dirty = true
			return nil
		}
	}
	return fmt.Errorf("text %s: %w", id, ErrOverlayNotFound)
}

// AddLogo places a logo over bounds, given in display pixels.
func (s *Session) AddLogo(source string, bounds geometry.Rect) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asset == nil {
		return "", ErrNoAsset
	}
	overlay := LogoOverlay{
		ID:      uuid.NewString(),
		X:       bounds.X,
		Y:       bounds.Y,
		Width:   bounds.Width,
		Height:  bounds.Height,
		Opacity: DefaultLogoAlpha,
		Source:  source,
	}
	s.logos = append(s.logos, overlay)
	s.dirty = true
	return overlay.ID, nil
}

func (s *Session) MoveLogo(id string, x, y float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.logos {
		if s.logos[i].ID == id {
			s.logos[i].X, s.logos[i].Y = x, y
			s.dirty = true
			return nil
		}
	}
	return fmt.Errorf("logo %s: %w", id, ErrOverlayNotFound)
}

func (s *Session) RemoveLogo(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.logos {
		if s.logos[i].ID == id {
			s.logos = append(s.logos[:i], s.logos[i+1:]...)
			s.dirty = true
			return nil
		}
	}
	return fmt.Errorf("logo %s: %w", id, ErrOverlayNotFound)
}

// Request builds the normalized edit payload. Logo overlays are held back
// because the backend cannot receive logo images; the user is told so.
func (s *Session) Request(ctx context.Context) (creative.EditRequest, error) {
	s.mu.Lock()
	req, logos, err := s.requestLocked()
	s.mu.Unlock()
	if err != nil {
		return creative.EditRequest{}, err
	}
	if logos > 0 && s.prompter != nil {
		s.prompter.Notify(ctx, fmt.Sprintf("%d logo overlay(s) are not sent: logo upload is not supported yet", logos))
	}
	return req, nil
}

func (s *Session) requestLocked() (creative.EditRequest, int, error) {
	if s.asset == nil {
		return creative.EditRequest{}, 0, ErrNoAsset
	}
	size := s.asset.Dimensions.Size()

	assetCrop, err := geometry.ToAsset(s.crop, size, s.displayWidth)
	if err != nil {
		return creative.EditRequest{}, 0, err
	}
	crop, err := geometry.ToUnit(assetCrop, size)
	if err != nil {
		return creative.EditRequest{}, 0, err
	}
	saturation, err := geometry.ToUnitScalar(float64(s.saturation), MinSaturation, MaxSaturation)
	if err != nil {
		return creative.EditRequest{}, 0, err
	}

	texts := make([]creative.TextOverlayEdit, 0, len(s.texts))
	for _, t := range s.texts {
		p, err := geometry.PointToAsset(geometry.Point{X: t.X, Y: t.Y}, size, s.displayWidth)
		if err != nil {
			return creative.EditRequest{}, 0, err
		}
		unit, err := geometry.ToUnitPoint(p, size)
		if err != nil {
			return creative.EditRequest{}, 0, err
		}
		texts = append(texts, creative.TextOverlayEdit{
			Text:     t.Text,
			Position: unit,
			Style: creative.TextStyle{
				FontFamily: t.FontFamily,
				FontSize:   t.FontSize,
				Color:      t.Color,
			},
		})
	}

	return creative.EditRequest{
		Crop:         crop,
		Saturation:   saturation,
		TextOverlays: texts,
		LogoOverlays: []creative.LogoOverlayEdit{},
	}, len(s.logos), nil
}

// Apply submits the edits. On success the session switches to the updated
// asset and is clean again. On failure the state stays dirty and the
// backend's message is passed to the user.
func (s *Session) Apply(ctx context.Context) (*creative.GeneratedAsset, error) {
	req, err := s.Request(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	assetID := s.asset.ID
	s.submitted = req
	s.mu.Unlock()

	updated, err := s.client.ApplyEdits(ctx, assetID, req)
	if err != nil {
		s.logger.Error().Err(err).Str("asset_id", assetID).Msg("failed to apply edits")
		if s.prompter != nil {
			s.prompter.Notify(ctx, "Failed to apply edits: "+creative.Message(err))
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if updated.Dimensions.Size().Valid() {
		s.asset = updated
	} else {
		// Keep the known dimensions when the answer leaves them out.
		merged := *updated
		merged.Dimensions = s.asset.Dimensions
		s.asset = &merged
	}
	s.dirty = false
	s.logger.Info().Str("asset_id", assetID).Msg("edits applied")
	return s.asset, nil
}

// Submitted returns the payload of the last Apply call.
func (s *Session) Submitted() creative.EditRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Discard drops unsaved changes once the user confirms. It reports whether
// the session was reset.
func (s *Session) Discard(ctx context.Context) bool {
	s.mu.Lock()
	hasAsset, dirty := s.asset != nil, s.dirty
	s.mu.Unlock()
	if !hasAsset {
		return false
	}
	if dirty {
		if s.prompter == nil || !s.prompter.Confirm(ctx, "Discard unsaved changes?") {
			return false
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return true
}
