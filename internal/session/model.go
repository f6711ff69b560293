package session

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/eleven-am/jump-backend/internal/kinematics"
	"github.com/eleven-am/jump-backend/internal/report"
	"github.com/eleven-am/jump-backend/internal/video"
)

type Status string

const (
	StatusOpen     Status = "open"
	StatusAnalyzed Status = "analyzed"
	StatusClosed   Status = "closed"
)

const (
	IDPrefix = "jmp_"

	DefaultHeightCM = 203
	DefaultWeightKg = 100
	MinHeightCM     = 120
	MaxHeightCM     = 230
	MinWeightKg     = 30
	MaxWeightKg     = 200
	MaxNameLength   = 100
)

var (
	ErrInvalidAthlete      = errors.New("invalid athlete")
	ErrSelectionOutOfRange = errors.New("frame index out of range")
	ErrNotAnalyzed         = errors.New("session has not been analyzed")
	ErrClosed              = errors.New("session is closed")
	ErrUnreadableVideo     = errors.New("video could not be read")
)

type Athlete struct {
	Name     string `json:"name"`
	HeightCM int    `json:"height_cm"`
	WeightKg int    `json:"weight_kg"`
}

func DefaultAthlete() Athlete {
	return Athlete{HeightCM: DefaultHeightCM, WeightKg: DefaultWeightKg}
}

// Normalize trims the name and checks every field against the form bounds.
func (a Athlete) Normalize() (Athlete, error) {
	a.Name = strings.TrimSpace(a.Name)
	if utf8.RuneCountInString(a.Name) > MaxNameLength {
		return a, fmt.Errorf("%w: name longer than %d characters", ErrInvalidAthlete, MaxNameLength)
	}
	if a.HeightCM < MinHeightCM || a.HeightCM > MaxHeightCM {
		return a, fmt.Errorf("%w: height %d cm outside [%d, %d]", ErrInvalidAthlete, a.HeightCM, MinHeightCM, MaxHeightCM)
	}
	if a.WeightKg < MinWeightKg || a.WeightKg > MaxWeightKg {
		return a, fmt.Errorf("%w: weight %d kg outside [%d, %d]", ErrInvalidAthlete, a.WeightKg, MinWeightKg, MaxWeightKg)
	}
	return a, nil
}

type Selection struct {
	TakeoffIndex int `json:"takeoff_index"`
	LandingIndex int `json:"landing_index"`
}

// DefaultSelection spans the whole clip.
func DefaultSelection(meta video.Metadata) Selection {
	return Selection{TakeoffIndex: 0, LandingIndex: meta.LastIndex()}
}

// Validate checks both indices against the clip. Ordering is left to the
// kinematics engine so the user can move either marker freely.
func (s Selection) Validate(meta video.Metadata) error {
	if !meta.Contains(s.TakeoffIndex) {
		return fmt.Errorf("%w: take-off frame %d not in [0, %d]", ErrSelectionOutOfRange, s.TakeoffIndex, meta.LastIndex())
	}
	if !meta.Contains(s.LandingIndex) {
		return fmt.Errorf("%w: landing frame %d not in [0, %d]", ErrSelectionOutOfRange, s.LandingIndex, meta.LastIndex())
	}
	return nil
}

type Session struct {
	ID         string             `json:"id"`
	Status     Status             `json:"status"`
	VideoName  string             `json:"video_name"`
	VideoPath  string             `json:"video_path"`
	ReportPath string             `json:"report_path,omitempty"`
	Metadata   video.Metadata     `json:"metadata"`
	Athlete    Athlete            `json:"athlete"`
	Selection  Selection          `json:"selection"`
	Result     *kinematics.Result `json:"result,omitempty"`
	AnalyzedAt *time.Time         `json:"analyzed_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

func New(id, videoName, videoPath string, meta video.Metadata, now time.Time) *Session {
	return &Session{
		ID:        id,
		Status:    StatusOpen,
		VideoName: videoName,
		VideoPath: videoPath,
		Metadata:  meta,
		Athlete:   DefaultAthlete(),
		Selection: DefaultSelection(meta),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func RedisKey(id string) string {
	return "jump:session:" + id
}

// DownloadKey marks that the report of a session has been handed out.
func DownloadKey(id string) string {
	return RedisKey(id) + ":downloaded"
}

func (s *Session) RedisKey() string {
	return RedisKey(s.ID)
}

// invalidate drops a previous analysis after the inputs changed.
func (s *Session) invalidate() {
	s.Status = StatusOpen
	s.Result = nil
	s.AnalyzedAt = nil
	s.ReportPath = ""
}

func (s *Session) Document() report.Document {
	doc := report.Document{
		Name:         s.Athlete.Name,
		HeightCM:     s.Athlete.HeightCM,
		WeightKg:     s.Athlete.WeightKg,
		TakeoffIndex: s.Selection.TakeoffIndex,
		LandingIndex: s.Selection.LandingIndex,
	}
	if s.AnalyzedAt != nil {
		doc.GeneratedAt = *s.AnalyzedAt
	}
	if s.Result != nil {
		doc.Result = *s.Result
	}
	return doc
}
