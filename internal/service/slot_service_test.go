package service

import (
	"context"
	"testing"

	"clinic-booking/internal/apperr"
	"clinic-booking/internal/model"
)

func TestSlotService_CreateBatch_CreatesAll(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSlotService(db)

	spec := seedSpecialty(t, db, "Cardiology")
	doc := seedDoctor(t, db, spec.ID)

	views, err := svc.CreateBatch(context.Background(), doc.ID, []SlotInput{
		{Date: "2026-09-01", StartTime: "09:00", EndTime: "09:30"},
		{Date: "2026-09-01", StartTime: "09:30", EndTime: "10:00"},
	})
	if err != nil {
		t.Fatalf("create batch: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("views len = %d, want 2", len(views))
	}
	if views[0].Date != "2026-09-01" || views[0].IsBooked {
		t.Fatalf("unexpected view: %+v", views[0])
	}

	var count int64
	if err := db.Model(&model.AvailableSlot{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("stored slots = %d, want 2", count)
	}
}

func TestSlotService_CreateBatch_AllOrNothing(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSlotService(db)

	spec := seedSpecialty(t, db, "Cardiology")
	doc := seedDoctor(t, db, spec.ID)

	_, err := svc.CreateBatch(context.Background(), doc.ID, []SlotInput{
		{Date: "2026-09-01", StartTime: "09:00", EndTime: "09:30"},
		{Date: "2026-09-01", StartTime: "10:00", EndTime: "09:00"}, // end before start
	})
	if apperr.KindOf(err) != apperr.KindValidationFailed {
		t.Fatalf("err = %v, want ValidationFailed", err)
	}

	var count int64
	if err := db.Model(&model.AvailableSlot{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("stored slots = %d, want 0 after rejected batch", count)
	}
}

func TestSlotService_CreateBatch_EmptyRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSlotService(db)

	spec := seedSpecialty(t, db, "Cardiology")
	doc := seedDoctor(t, db, spec.ID)

	_, err := svc.CreateBatch(context.Background(), doc.ID, nil)
	if apperr.KindOf(err) != apperr.KindValidationFailed {
		t.Fatalf("err = %v, want ValidationFailed", err)
	}
}

func TestSlotService_Generate(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSlotService(db)

	spec := seedSpecialty(t, db, "Cardiology")
	doc := seedDoctor(t, db, spec.ID)

	views, err := svc.Generate(context.Background(), doc.ID, "2026-09-01", "09:00", "10:45", 30)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	// 09:00-10:45 yields three 30-minute slots; the 15-minute tail is dropped.
	if len(views) != 3 {
		t.Fatalf("views len = %d, want 3", len(views))
	}
	if views[2].StartTime != "10:00" || views[2].EndTime != "10:30" {
		t.Fatalf("last slot = %s-%s, want 10:00-10:30", views[2].StartTime, views[2].EndTime)
	}

	_, err = svc.Generate(context.Background(), doc.ID, "2026-09-01", "09:00", "09:20", 30)
	if apperr.KindOf(err) != apperr.KindValidationFailed {
		t.Fatalf("short window err = %v, want ValidationFailed", err)
	}
}

func TestSlotService_ListAll_ExcludesBookedAndFiltersSpecialty(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSlotService(db)
	ctx := context.Background()

	cardio := seedSpecialty(t, db, "Cardiology")
	derma := seedSpecialty(t, db, "Dermatology")
	cardioDoc := seedDoctor(t, db, cardio.ID)
	dermaDoc := seedDoctor(t, db, derma.ID)

	open := seedSlot(t, db, cardioDoc.ID, "2026-09-01", "09:00", "09:30")
	seedSlot(t, db, dermaDoc.ID, "2026-09-01", "09:00", "09:30")
	booked := seedSlot(t, db, cardioDoc.ID, "2026-09-01", "10:00", "10:30")
	if err := db.Model(&model.AvailableSlot{}).Where("id = ?", booked.ID).Update("is_booked", true).Error; err != nil {
		t.Fatalf("mark booked: %v", err)
	}

	all, err := svc.ListAll(ctx, nil)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("list all len = %d, want 2 (booked slot excluded)", len(all))
	}

	got, err := svc.ListAll(ctx, &cardio.ID)
	if err != nil {
		t.Fatalf("list by specialty: %v", err)
	}
	if len(got) != 1 || got[0].ID != open.ID {
		t.Fatalf("specialty list = %+v, want only the open cardiology slot", got)
	}
	if got[0].Doctor == nil || got[0].Doctor.Specialty == nil || got[0].Doctor.Specialty.Name != "Cardiology" {
		t.Fatalf("doctor read model not loaded: %+v", got[0].Doctor)
	}
}

func TestSlotService_ListForDoctor_DateFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSlotService(db)
	ctx := context.Background()

	spec := seedSpecialty(t, db, "Cardiology")
	doc := seedDoctor(t, db, spec.ID)

	seedSlot(t, db, doc.ID, "2026-09-01", "09:00", "09:30")
	seedSlot(t, db, doc.ID, "2026-09-02", "09:00", "09:30")

	date := "2026-09-02"
	got, err := svc.ListForDoctor(ctx, doc.ID, &date)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Date != "2026-09-02" {
		t.Fatalf("dated list = %+v, want only the 2026-09-02 slot", got)
	}

	bad := "not-a-date"
	if _, err := svc.ListForDoctor(ctx, doc.ID, &bad); apperr.KindOf(err) != apperr.KindValidationFailed {
		t.Fatalf("bad date err = %v, want ValidationFailed", err)
	}
}
