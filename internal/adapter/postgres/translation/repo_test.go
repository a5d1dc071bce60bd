package translation

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/jelyk/wortschatz-backend/internal/adapter/postgres/testutil"
	"github.com/jelyk/wortschatz-backend/internal/domain"
)

func translationColumns() []string {
	return []string{"id", "card_id", "lang", "text", "status", "source", "updated_at"}
}

func TestRepo_Upsert(t *testing.T) {
	tests := []struct {
		name  string
		lang  string
		setup func(mock pgxmock.PgxPoolIface)
	}{
		{
			name: "manual text",
			lang: "en",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO card_translations`).
					WithArgs(int64(3), "en", "A sentence.", "manual", "manual").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "legacy alias canonicalized before write",
			lang: "UA",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO card_translations`).
					WithArgs(int64(3), "uk", "A sentence.", "manual", "manual").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name:  "unrecognizable language is a no-op",
			lang:  "!!!",
			setup: func(mock pgxmock.PgxPoolIface) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier, mock := testutil.NewMockQuerier(t)
			repo := New(querier)
			tt.setup(mock)

			err := repo.Upsert(context.Background(), 3, tt.lang, "A sentence.", domain.StatusManual, domain.SourceManual)
			if err != nil {
				t.Fatalf("Upsert() error = %v", err)
			}

			testutil.ExpectationsWereMet(t, mock)
		})
	}
}

func TestRepo_FetchByCards(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		cardIDs []int64
		setup   func(mock pgxmock.PgxPoolIface)
		wantLen int
		wantErr bool
	}{
		{
			name:    "returns rows with canonical langs",
			cardIDs: []int64{3},
			setup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(translationColumns()).
					AddRow(int64(1), int64(3), "en", "text", "manual", "manual", now).
					AddRow(int64(2), int64(3), "ua", "текст", "pending", "", now)
				mock.ExpectQuery(`SELECT`).
					WithArgs([]int64{3}).
					WillReturnRows(rows)
			},
			wantLen: 2,
		},
		{
			name:    "empty input skips the query",
			cardIDs: nil,
			setup:   func(mock pgxmock.PgxPoolIface) {},
			wantLen: 0,
		},
		{
			name:    "query error",
			cardIDs: []int64{3},
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT`).
					WithArgs([]int64{3}).
					WillReturnError(errors.New("boom"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier, mock := testutil.NewMockQuerier(t)
			repo := New(querier)
			tt.setup(mock)

			got, err := repo.FetchByCards(context.Background(), tt.cardIDs)

			if (err != nil) != tt.wantErr {
				t.Fatalf("FetchByCards() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && len(got) != tt.wantLen {
				t.Errorf("FetchByCards() len = %d, want %d", len(got), tt.wantLen)
			}
			if tt.name == "returns rows with canonical langs" && got[1].Lang != "uk" {
				t.Errorf("expected stale ua row canonicalized to uk, got %q", got[1].Lang)
			}

			testutil.ExpectationsWereMet(t, mock)
		})
	}
}

func TestRepo_DeleteByCard(t *testing.T) {
	querier, mock := testutil.NewMockQuerier(t)
	repo := New(querier)

	mock.ExpectExec(`DELETE FROM card_translations`).
		WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 4))

	if err := repo.DeleteByCard(context.Background(), 3); err != nil {
		t.Fatalf("DeleteByCard() error = %v", err)
	}

	testutil.ExpectationsWereMet(t, mock)
}
