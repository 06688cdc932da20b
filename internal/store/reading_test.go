package store

import (
	"testing"
)

func testReadings(base int) []Reading {
	readings := make([]Reading, 3)
	for i := range readings {
		readings[i] = Reading{
			EstimatedAge: base + i,
			Wrinkles:     25,
			EyeAging:     20,
			Texture:      85,
			Volume:       82,
			SkinTone:     10,
		}
	}
	return readings
}

func TestReadingRepository_Append(t *testing.T) {
	s := newTestStore(t)

	if err := s.Sessions().Create(&Session{ID: "session-1"}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	if err := s.Readings().Append("session-1", testReadings(30)); err != nil {
		t.Fatalf("failed to append readings: %v", err)
	}

	readings, err := s.Readings().GetBySessionID("session-1")
	if err != nil {
		t.Fatalf("failed to get readings: %v", err)
	}

	if len(readings) != 3 {
		t.Fatalf("expected 3 readings, got %d", len(readings))
	}

	// Recording order is preserved.
	for i, reading := range readings {
		if reading.EstimatedAge != 30+i {
			t.Errorf("reading %d age = %d, want %d", i, reading.EstimatedAge, 30+i)
		}
		if reading.SessionID != "session-1" {
			t.Errorf("reading %d session = %q, want %q", i, reading.SessionID, "session-1")
		}
		if reading.CreatedAt.IsZero() {
			t.Errorf("reading %d should have a creation time", i)
		}
	}
}

func TestReadingRepository_Append_AdvancesFrameCount(t *testing.T) {
	s := newTestStore(t)

	if err := s.Sessions().Create(&Session{ID: "session-1"}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	if err := s.Readings().Append("session-1", testReadings(30)); err != nil {
		t.Fatalf("failed to append first batch: %v", err)
	}
	if err := s.Readings().Append("session-1", testReadings(33)); err != nil {
		t.Fatalf("failed to append second batch: %v", err)
	}

	sess, err := s.Sessions().GetByID("session-1")
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if sess.Frames != 6 {
		t.Errorf("Frames = %d, want 6 after two batches", sess.Frames)
	}
}

func TestReadingRepository_Append_Empty(t *testing.T) {
	s := newTestStore(t)

	if err := s.Sessions().Create(&Session{ID: "session-1"}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	if err := s.Readings().Append("session-1", nil); err != nil {
		t.Errorf("appending an empty batch should not fail: %v", err)
	}

	sess, err := s.Sessions().GetByID("session-1")
	if err != nil {
		t.Fatalf("failed to get session: %v", err)
	}
	if sess.Frames != 0 {
		t.Errorf("Frames = %d, want 0 after empty batch", sess.Frames)
	}
}

func TestReadingRepository_Append_UnknownSession(t *testing.T) {
	s := newTestStore(t)

	// The foreign key constraint rejects readings for a missing session.
	err := s.Readings().Append("non-existent-id", testReadings(30))
	if err == nil {
		t.Error("expected appending to a missing session to fail")
	}
}

func TestReadingRepository_GetBySessionID_Empty(t *testing.T) {
	s := newTestStore(t)

	readings, err := s.Readings().GetBySessionID("non-existent-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(readings) != 0 {
		t.Errorf("expected no readings, got %d", len(readings))
	}
}

func TestReadingRepository_DeleteBySessionID(t *testing.T) {
	s := newTestStore(t)

	if err := s.Sessions().Create(&Session{ID: "session-1"}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if err := s.Readings().Append("session-1", testReadings(30)); err != nil {
		t.Fatalf("failed to append readings: %v", err)
	}

	if err := s.Readings().DeleteBySessionID("session-1"); err != nil {
		t.Fatalf("failed to delete readings: %v", err)
	}

	readings, err := s.Readings().GetBySessionID("session-1")
	if err != nil {
		t.Fatalf("failed to query readings: %v", err)
	}
	if len(readings) != 0 {
		t.Errorf("expected no readings after delete, got %d", len(readings))
	}
}
