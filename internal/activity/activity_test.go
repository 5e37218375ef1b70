package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zulandar/tasktrail/internal/db"
	"github.com/zulandar/tasktrail/internal/models"
	"gorm.io/gorm"
)

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	gormDB, err := db.OpenMemory()
	require.NoError(t, err)
	return gormDB
}

func seedEntries(t *testing.T, gormDB *gorm.DB, taskID string, n int) {
	t.Helper()
	entries := make([]models.ActivityLog, n)
	for i := range entries {
		entries[i] = models.ActivityLog{
			TaskID:    taskID,
			UserID:    "user-1",
			Action:    models.ActionTaskUpdated,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	require.NoError(t, AppendBatch(gormDB, entries))
}

func TestPage_Offset(t *testing.T) {
	tests := []struct {
		page Page
		want int
	}{
		{Page{Number: 1, Size: 20}, 0},
		{Page{Number: 2, Size: 20}, 20},
		{Page{Number: 3, Size: 7}, 14},
		{Page{Number: 0, Size: 20}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.page.Offset(), "%+v", tt.page)
	}
}

func TestAppend_AssignsID(t *testing.T) {
	gormDB := testDB(t)
	e := &models.ActivityLog{TaskID: "t1", UserID: "u1", Action: models.ActionTaskCreated, CreatedAt: base}
	require.NoError(t, Append(gormDB, e))
	assert.NotZero(t, e.ID)
}

func TestAppendBatch_Empty(t *testing.T) {
	gormDB := testDB(t)
	require.NoError(t, AppendBatch(gormDB, nil))
	n, err := CountByTask(gormDB, "t1", DateRange{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestFindByTask_NewestFirst(t *testing.T) {
	gormDB := testDB(t)
	seedEntries(t, gormDB, "t1", 3)
	seedEntries(t, gormDB, "other", 2)

	got, err := FindByTask(gormDB, "t1", Page{Number: 1, Size: 20}, DateRange{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].CreatedAt.After(got[i].CreatedAt), "entries not newest-first: %v", got)
	}
	for _, e := range got {
		assert.Equal(t, "t1", e.TaskID)
	}
}

func TestFindByTask_SameTimestampUsesInsertionOrder(t *testing.T) {
	gormDB := testDB(t)
	title, priority := "title", "priority"
	rec := NewRecorder("u1", base)
	rec.Change("t1", models.ActionTaskUpdated, FieldChange{Field: title})
	rec.Change("t1", models.ActionTaskUpdated, FieldChange{Field: priority})
	require.NoError(t, AppendBatch(gormDB, rec.Entries()))

	got, err := FindByTask(gormDB, "t1", Page{Number: 1, Size: 20}, DateRange{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "priority", *got[0].Field)
	assert.Equal(t, "title", *got[1].Field)
	assert.True(t, got[0].CreatedAt.Equal(got[1].CreatedAt))
}

func TestFindByTask_Pagination(t *testing.T) {
	gormDB := testDB(t)
	seedEntries(t, gormDB, "t1", 25)

	first, err := FindByTask(gormDB, "t1", Page{Number: 1, Size: 20}, DateRange{})
	require.NoError(t, err)
	assert.Len(t, first, 20)

	second, err := FindByTask(gormDB, "t1", Page{Number: 2, Size: 20}, DateRange{})
	require.NoError(t, err)
	assert.Len(t, second, 5)

	// The oldest entry is the last one on the last page.
	assert.True(t, second[len(second)-1].CreatedAt.Equal(base))

	n, err := CountByTask(gormDB, "t1", DateRange{})
	require.NoError(t, err)
	assert.EqualValues(t, 25, n)
}

func TestFindByTask_DateRange(t *testing.T) {
	gormDB := testDB(t)
	seedEntries(t, gormDB, "t1", 10) // base .. base+9m

	dr := DateRange{Start: base.Add(3 * time.Minute), End: base.Add(6 * time.Minute)}
	got, err := FindByTask(gormDB, "t1", Page{Number: 1, Size: 20}, dr)
	require.NoError(t, err)
	assert.Len(t, got, 4)

	n, err := CountByTask(gormDB, "t1", dr)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	onlyStart, err := CountByTask(gormDB, "t1", DateRange{Start: base.Add(8 * time.Minute)})
	require.NoError(t, err)
	assert.EqualValues(t, 2, onlyStart)

	onlyEnd, err := CountByTask(gormDB, "t1", DateRange{End: base})
	require.NoError(t, err)
	assert.EqualValues(t, 1, onlyEnd)
}

func TestFindByTasks(t *testing.T) {
	gormDB := testDB(t)
	seedEntries(t, gormDB, "a", 2)
	seedEntries(t, gormDB, "b", 3)
	seedEntries(t, gormDB, "c", 4)

	got, err := FindByTasks(gormDB, []string{"a", "b"}, Page{Number: 1, Size: 20}, DateRange{})
	require.NoError(t, err)
	assert.Len(t, got, 5)
	for _, e := range got {
		assert.Contains(t, []string{"a", "b"}, e.TaskID)
	}

	n, err := CountByTasks(gormDB, []string{"a", "b", "c"}, DateRange{})
	require.NoError(t, err)
	assert.EqualValues(t, 9, n)
}

func TestFindByTasks_EmptyIDs(t *testing.T) {
	gormDB := testDB(t)
	seedEntries(t, gormDB, "a", 2)

	got, err := FindByTasks(gormDB, nil, Page{Number: 1, Size: 20}, DateRange{})
	require.NoError(t, err)
	assert.Empty(t, got)

	n, err := CountByTasks(gormDB, []string{}, DateRange{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecorder_StampsActorAndTime(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	rec := NewRecorder("actor", at)
	s := "status-1"
	rec.Event("t1", models.ActionStatusAdded, nil, &s)
	rec.Change("t2", models.ActionTaskUpdated, FieldChange{Field: "title", Old: &s})

	entries := rec.Entries()
	require.Equal(t, 2, rec.Len())
	for _, e := range entries {
		assert.Equal(t, "actor", e.UserID)
		assert.True(t, e.CreatedAt.Equal(at))
		assert.Equal(t, time.UTC, e.CreatedAt.Location())
	}
	assert.Nil(t, entries[0].Field)
	assert.Equal(t, "title", *entries[1].Field)
	assert.Equal(t, "t2", entries[1].TaskID)
}
