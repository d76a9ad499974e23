package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaladDann/SIGECOB/internal/notify"
	"github.com/SaladDann/SIGECOB/internal/repo"
	"github.com/SaladDann/SIGECOB/internal/testdb"
)

func TestAudit_RecentAndSearch(t *testing.T) {
	db := testdb.Open(t)
	r := repo.New(db)
	sink := &notify.GormAuditSink{Repo: r}
	svc := &AuditService{Repo: r}
	ctx := context.Background()

	uid := uint(7)
	sink.Record(ctx, "USER_LOGIN", notify.Entry{UserID: &uid, Entity: "User", SourceIP: "10.0.0.5"})
	sink.Record(ctx, "ORDER_CREATED_AND_PAYMENT_PROCESSED", notify.Entry{UserID: &uid, Entity: "Order", EntityID: "1"})
	sink.Record(ctx, "LOGIN_FAILED", notify.Entry{Entity: "User", SourceIP: "10.0.0.9"})

	recent, err := svc.Recent(ctx)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "LOGIN_FAILED", recent[0].Action)

	byUser, err := svc.Search(ctx, repo.AuditFilter{UserID: &uid})
	require.NoError(t, err)
	assert.Len(t, byUser, 2)

	byAction, err := svc.Search(ctx, repo.AuditFilter{Action: "login"})
	require.NoError(t, err)
	assert.Len(t, byAction, 2)

	byIP, err := svc.Search(ctx, repo.AuditFilter{IPAddress: "10.0.0.9"})
	require.NoError(t, err)
	require.Len(t, byIP, 1)
	assert.Nil(t, byIP[0].UserID)

	byEntity, err := svc.Search(ctx, repo.AuditFilter{Entity: "Order"})
	require.NoError(t, err)
	require.Len(t, byEntity, 1)
	assert.Equal(t, "1", *byEntity[0].EntityID)
}
