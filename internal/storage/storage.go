package storage

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/keshon/hola-music/datastore"
)

const (
	commandHistoryLimit int = 20
	tracksHistoryLimit  int = 12
)

type Storage struct {
	// serialises read-modify-write of guild records
	mu sync.Mutex
	ds *datastore.DataStore
}

type CommandHistoryRecord struct {
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Command   string    `json:"command"`
	Param     string    `json:"param"`
	Datetime  time.Time `json:"datetime"`
}

type TrackHistoryRecord struct {
	Locator  string    `json:"locator"`
	PlayedAt time.Time `json:"played_at"`
}

type Record struct {
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
	TracksHistoryList   []TrackHistoryRecord   `json:"tracks_history"`
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func NewWithDataStore(ds *datastore.DataStore) *Storage {
	return &Storage{ds: ds}
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// getOrCreateGuildRecord decodes the guild's record. Values loaded from disk come back
// as generic maps, so they round-trip through JSON.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	data, exists := s.ds.Get(guildID)
	if !exists {
		return &Record{}, nil
	}

	if rec, ok := data.(*Record); ok {
		clone := *rec
		clone.CommandsHistoryList = append([]CommandHistoryRecord(nil), rec.CommandsHistoryList...)
		clone.TracksHistoryList = append([]TrackHistoryRecord(nil), rec.TracksHistoryList...)
		return &clone, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshalling data: %w", err)
	}

	var record Record
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("error unmarshalling to *Record: %w", err)
	}
	return &record, nil
}

func (s *Storage) update(guildID string, fn func(rec *Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	fn(record)
	return s.ds.Add(guildID, record)
}

// AppendCommandToHistory appends a command history record for a guild
func (s *Storage) AppendCommandToHistory(guildID string, command CommandHistoryRecord) error {
	return s.update(guildID, func(rec *Record) {
		rec.CommandsHistoryList = keepLast(append(rec.CommandsHistoryList, command), commandHistoryLimit)
	})
}

func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistoryList, nil
}

// RecordTrack appends a started track to the guild's play history.
func (s *Storage) RecordTrack(guildID, locator string) error {
	return s.update(guildID, func(rec *Record) {
		rec.TracksHistoryList = keepLast(append(rec.TracksHistoryList, TrackHistoryRecord{
			Locator:  locator,
			PlayedAt: time.Now().UTC(),
		}), tracksHistoryLimit)
	})
}

// FetchTrackHistory returns the most recent tracks, oldest first.
func (s *Storage) FetchTrackHistory(guildID string) ([]TrackHistoryRecord, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.TracksHistoryList, nil
}

func keepLast[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[len(items)-limit:]
	}
	return items
}
