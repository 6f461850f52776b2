//go:generate go run go.uber.org/mock/mockgen -source=transcript.go -destination=../mocks/mock_transcript_repository.go -package=mocks
package repositories

import (
	"afya-chat/domain"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	transcriptPrefix = "msg:"
	textField        = "text"
	positionField    = "position"
)

type ITranscriptRepository interface {
	StoreMessage(message TranscriptMessage) error
	GetMessages(cursor *string) ([]TranscriptMessage, *string, error)
	Search(ctx context.Context, query string, limit int) ([]TranscriptMessage, error)
	Reset() error
}

// TranscriptMessage is a message as kept in the transcript, with its place in the log.
type TranscriptMessage struct {
	ID       uuid.UUID
	Position int
	Sender   domain.Sender
	Text     string
	At       time.Time
}

// TranscriptRepository keeps the current session's transcript in Badger for
// paging and in a Bluge index for full-text search. Both live in memory only.
type TranscriptRepository struct {
	db            *badger.DB
	writer        *bluge.Writer
	log           *slog.Logger
	limitMessages *int
}

func NewTranscriptRepository(db *badger.DB, writer *bluge.Writer, log *slog.Logger, limitMessages *int) TranscriptRepository {
	return TranscriptRepository{db: db, writer: writer, log: log, limitMessages: limitMessages}
}

// OpenInMemory opens the Badger store and the Bluge index without touching disk.
func OpenInMemory() (*badger.DB, *bluge.Writer, error) {
	options := badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(options)
	if err != nil {
		return nil, nil, fmt.Errorf("open transcript store: %w", err)
	}
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("open transcript index: %w", err)
	}
	return db, writer, nil
}

// StoreMessage writes the message under "msg:{position_padded}".
// Storing the same position again replaces it, which is how the welcome
// message follows language changes.
func (r TranscriptRepository) StoreMessage(message TranscriptMessage) error {
	bytes, err := encode(message)
	if err != nil {
		return err
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(positionKey(message.Position), bytes)
	})
	if err != nil {
		return err
	}

	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField(textField, message.Text)).
		AddField(bluge.NewKeywordField(positionField, strconv.Itoa(message.Position)).StoreValue())
	return r.writer.Update(doc.ID(), doc)
}

// GetMessages returns the transcript newest first, starting after cursor.
// It stops once the configured limitMessages is reached and returns the
// cursor of the last message read, or nil when nothing older is left.
func (r TranscriptRepository) GetMessages(cursor *string) ([]TranscriptMessage, *string, error) {
	var messages []TranscriptMessage
	var lastKey string
	hasMore := false
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(transcriptPrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			seekKey = append([]byte(transcriptPrefix), []byte("9999999999")...)
		default:
			seekKey = append([]byte(transcriptPrefix), []byte(*cursor)...)
		}
		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()[len(prefix):]) == *cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if r.limitMessages != nil && len(messages) == *r.limitMessages {
				r.log.Debug(fmt.Sprintf("Maximum of %d message reached", *r.limitMessages))
				hasMore = true
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			err := item.Value(func(value []byte) error {
				message, err := decode(value)
				if err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if !hasMore {
		return messages, nil, nil
	}
	return messages, &lastKey, nil
}

// Reset forgets the whole transcript: the index documents first, then the
// stored records they point to.
func (r TranscriptRepository) Reset() error {
	var ids []string
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(transcriptPrefix)
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				message, err := decode(value)
				if err != nil {
					return err
				}
				ids = append(ids, message.ID.String())
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(ids) > 0 {
		batch := bluge.NewBatch()
		for _, id := range ids {
			batch.Delete(bluge.Identifier(id))
		}
		if err := r.writer.Batch(batch); err != nil {
			return fmt.Errorf("clearing transcript index: %w", err)
		}
	}
	if err := r.db.DropPrefix([]byte(transcriptPrefix)); err != nil {
		return fmt.Errorf("clearing transcript store: %w", err)
	}
	r.log.Debug("Transcript cleared", "messages", len(ids))
	return nil
}

// Search returns the messages matching query, best match first.
func (r TranscriptRepository) Search(ctx context.Context, query string, limit int) ([]TranscriptMessage, error) {
	reader, err := r.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	request := bluge.NewTopNSearch(limit, bluge.NewMatchQuery(query).SetField(textField))
	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var positions []int
	match, err := matches.Next()
	for err == nil && match != nil {
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			if field == positionField {
				if position, convErr := strconv.Atoi(string(value)); convErr == nil {
					positions = append(positions, position)
				}
			}
			return true
		})
		if visitErr != nil {
			return nil, visitErr
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, err
	}
	return r.getByPositions(positions)
}

func (r TranscriptRepository) getByPositions(positions []int) ([]TranscriptMessage, error) {
	messages := make([]TranscriptMessage, 0, len(positions))
	err := r.db.View(func(txn *badger.Txn) error {
		for _, position := range positions {
			item, err := txn.Get(positionKey(position))
			if err != nil {
				return err
			}
			err = item.Value(func(value []byte) error {
				message, err := decode(value)
				if err != nil {
					return err
				}
				messages = append(messages, message)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return messages, err
}

func positionKey(position int) []byte {
	return []byte(fmt.Sprintf("%s%010d", transcriptPrefix, position))
}

func encode(message TranscriptMessage) ([]byte, error) {
	record, err := structpb.NewStruct(map[string]any{
		"id":       message.ID.String(),
		"position": message.Position,
		"sender":   string(message.Sender),
		"text":     message.Text,
		"at":       message.At.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return nil, err
	}
	return proto.Marshal(record)
}

func decode(bytes []byte) (TranscriptMessage, error) {
	var record structpb.Struct
	if err := proto.Unmarshal(bytes, &record); err != nil {
		return TranscriptMessage{}, err
	}
	fields := record.GetFields()
	id, err := uuid.Parse(fields["id"].GetStringValue())
	if err != nil {
		return TranscriptMessage{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, fields["at"].GetStringValue())
	if err != nil {
		return TranscriptMessage{}, err
	}
	return TranscriptMessage{
		ID:       id,
		Position: int(fields["position"].GetNumberValue()),
		Sender:   domain.Sender(fields["sender"].GetStringValue()),
		Text:     fields["text"].GetStringValue(),
		At:       at,
	}, nil
}
