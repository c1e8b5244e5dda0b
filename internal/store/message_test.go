// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"folio/internal/models"
)

func TestMessageStoreLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewMessageStore(db)
	ctx := context.Background()

	m := &models.Message{Name: "Ion", Email: "ion@example.com", Subject: "Quote", Body: "Hello there"}
	if err := s.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { db.Exec("DELETE FROM messages WHERE id = $1", m.ID) })

	if m.ID == uuid.Nil || m.IsRead {
		t.Errorf("new message = %+v", m)
	}

	unread, total, err := s.List(ctx, true, 100, 0)
	if err != nil {
		t.Fatalf("List unread: %v", err)
	}
	if total < 1 || !containsMessage(unread, m.ID) {
		t.Error("new message missing from unread list")
	}

	ok, err := s.MarkRead(ctx, m.ID)
	if err != nil || !ok {
		t.Fatalf("MarkRead = %v, %v", ok, err)
	}
	got, _ := s.FindByID(ctx, m.ID)
	if !got.IsRead {
		t.Error("message should be read")
	}

	unread, _, _ = s.List(ctx, true, 100, 0)
	if containsMessage(unread, m.ID) {
		t.Error("read message still listed as unread")
	}

	ok, err = s.Delete(ctx, m.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v", ok, err)
	}
	ok, err = s.Delete(ctx, m.ID)
	if err != nil || ok {
		t.Errorf("second Delete = %v, %v; want false, nil", ok, err)
	}
}

func containsMessage(items []models.Message, id uuid.UUID) bool {
	for _, m := range items {
		if m.ID == id {
			return true
		}
	}
	return false
}
