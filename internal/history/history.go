// Package history keeps the attempts of the running session in an in-memory
// sqlite database so they can be listed and replayed. Nothing is written to
// disk.
package history

import (
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"git.lost.host/meutraa/judgeline/internal/game"
	"git.lost.host/meutraa/judgeline/internal/judge"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type Attempt struct {
	ID       uuid.UUID
	Sum      string
	Speed    float64
	Autoplay bool
	Score    uint64
	MaxCombo uint32
	Counts   game.Counts
	Created  time.Time
	Frames   []judge.Frame
}

// NewAttempt starts an empty attempt on the chart with the given sum.
func NewAttempt(sum string, speed float64, autoplay bool) *Attempt {
	return &Attempt{
		ID:       uuid.New(),
		Sum:      sum,
		Speed:    speed,
		Autoplay: autoplay,
		Created:  time.Now(),
	}
}

// Record appends a frame. The touches are copied since input sources reuse
// their buffers between frames.
func (a *Attempt) Record(frame judge.Frame) {
	f := judge.Frame{Time: frame.Time}
	if len(frame.Touches) > 0 {
		f.Touches = append([]game.Touch(nil), frame.Touches...)
	}
	a.Frames = append(a.Frames, f)
}

// Finish copies the judge's result into the attempt.
func (a *Attempt) Finish(j *judge.Judge) {
	a.Score = j.Score()
	a.MaxCombo = j.MaxCombo
	a.Counts = j.Counts
}

// Sum identifies a chart by the hash of its text.
func Sum(text string) string {
	sum := sha256.Sum256([]byte(text))
	return base64.StdEncoding.EncodeToString(sum[:])
}

// Replay runs a fresh judge over the recorded frames.
func Replay(chart *game.Chart, a *Attempt) *judge.Judge {
	j := judge.New(chart, judge.Options{Autoplay: a.Autoplay})
	var bad []judge.BadNote
	for _, f := range a.Frames {
		bad = j.Update(chart, f, bad[:0])
	}
	return j
}

type Store struct {
	db *sql.DB
}

// Open creates the named in-memory database. Stores opened with the same
// name share their attempts while at least one of them is open.
func Open(name string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if nil != err {
		return nil, fmt.Errorf("unable to open history: %w", err)
	}

	initStatement := `
	create table if not exists attempts
	  (
		  id text not null primary key,
		  sum text not null,
		  speed real,
		  autoplay integer,
		  score integer,
		  max_combo integer,
		  perfect integer,
		  good integer,
		  bad integer,
		  miss integer,
		  created integer,
		  frames blob
	  );
	create index if not exists attempts_sum on attempts(sum);
	`
	if _, err = db.Exec(initStatement); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to create history table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() {
	if nil != s.db {
		s.db.Close()
	}
}

func (s *Store) Save(a *Attempt) error {
	data, err := json.Marshal(compactFrames(a.Frames))
	if nil != err {
		return fmt.Errorf("unable to marshal frames: %w", err)
	}
	_, err = s.db.Exec(`insert into attempts
		(id, sum, speed, autoplay, score, max_combo, perfect, good, bad, miss, created, frames)
		values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.Sum, a.Speed, a.Autoplay, int64(a.Score), a.MaxCombo,
		a.Counts[game.Perfect], a.Counts[game.Good], a.Counts[game.Bad], a.Counts[game.Miss],
		a.Created.UnixNano(), data)
	if nil != err {
		return fmt.Errorf("unable to save attempt %v: %w", a.ID, err)
	}
	return nil
}

// Load returns the attempts on a chart, oldest first. Rows that cannot be
// decoded are logged and skipped.
func (s *Store) Load(sum string) ([]Attempt, error) {
	attempts := []Attempt{}
	rows, err := s.db.Query(`select id, speed, autoplay, score, max_combo, perfect, good, bad, miss, created, frames
		from attempts where sum = ? order by created`, sum)
	if nil != err {
		return attempts, fmt.Errorf("unable to load attempts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id string
		var score, created int64
		var data []byte
		a := Attempt{Sum: sum}
		if err := rows.Scan(&id, &a.Speed, &a.Autoplay, &score, &a.MaxCombo,
			&a.Counts[game.Perfect], &a.Counts[game.Good], &a.Counts[game.Bad], &a.Counts[game.Miss],
			&created, &data); nil != err {
			log.Println("unable to scan attempt", err)
			continue
		}
		if a.ID, err = uuid.Parse(id); nil != err {
			log.Println("unable to parse attempt id", id, err)
			continue
		}
		var l Log
		if err := json.Unmarshal(data, &l); nil != err {
			log.Println("unable to unmarshal frame history", a.ID, err)
			continue
		}
		a.Score = uint64(score)
		a.Created = time.Unix(0, created)
		a.Frames = uncompactFrames(l)
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// Best is the highest score recorded on a chart.
func (s *Store) Best(sum string) (uint64, bool) {
	var best sql.NullInt64
	if err := s.db.QueryRow("select max(score) from attempts where sum = ?", sum).Scan(&best); nil != err {
		log.Println("unable to query best score", err)
		return 0, false
	}
	return uint64(best.Int64), best.Valid
}
