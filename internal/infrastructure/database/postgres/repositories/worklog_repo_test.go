package repositories_test

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regcat-io/regcat/internal/domain/annotation"
	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/internal/infrastructure/database/postgres/repositories"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
)

func worklogRows(w *glossary.Worklog) *sqlmock.Rows {
	var conceptID interface{}
	if w.ConceptID != nil {
		conceptID = w.ConceptID.String()
	}
	return sqlmock.NewRows([]string{"id", "annotation_type", "document_id", "concept_id", "user_name", "rejected", "begin_offset", "end_offset", "quote", "xpath_start", "xpath_end", "created_at"}).
		AddRow(w.ID, w.Type, w.DocumentID, conceptID, w.User, w.Rejected, w.Span.Begin, w.Span.End, w.Quote, w.XPathStart, w.XPathEnd, time.Now())
}

func testWorklog() *glossary.Worklog {
	conceptID := uuid.New()
	return &glossary.Worklog{
		ID:         uuid.New(),
		Type:       glossary.AnnotationOccurrence,
		DocumentID: uuid.New(),
		ConceptID:  &conceptID,
		User:       "reviewer@fisma.eu",
		Span:       annotation.Span{Begin: 120, End: 138},
		Quote:      "credit institution",
	}
}

func TestWorklogRepository_Create(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	repo := repositories.NewWorklogRepository(db, logging.NewNopLogger())

	w := testWorklog()
	mock.ExpectExec(`INSERT INTO annotation_worklogs`).
		WithArgs(w.ID, w.Type, w.DocumentID, *w.ConceptID, w.User, false, 120, 138, w.Quote, w.XPathStart, w.XPathEnd).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), w))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorklogRepository_Delete_CascadesToOccurrence(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	repo := repositories.NewWorklogRepository(db, logging.NewNopLogger())

	w := testWorklog()
	mock.ExpectQuery(`SELECT .* FROM annotation_worklogs WHERE id`).
		WillReturnRows(worklogRows(w))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM concept_occurrences`).
		WithArgs(*w.ConceptID, w.DocumentID, 120, 138).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM annotation_worklogs WHERE id`).
		WithArgs(w.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), w.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorklogRepository_Delete_RejectionHasNoMirroredRow(t *testing.T) {
	t.Parallel()
	db, mock := newMockDB(t)
	repo := repositories.NewWorklogRepository(db, logging.NewNopLogger())

	w := testWorklog()
	w.Rejected = true
	mock.ExpectQuery(`SELECT .* FROM annotation_worklogs WHERE id`).
		WillReturnRows(worklogRows(w))

	// No offset delete for a rejection entry: straight to the worklog row.
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM annotation_worklogs WHERE id`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), w.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorklogRepository_ByDocument(t *testing.T) {
	t.Parallel()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.ValueConverterOption(passthroughConverter{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := repositories.NewWorklogRepository(db, logging.NewNopLogger())

	w := testWorklog()
	mock.ExpectQuery(`SELECT .* FROM annotation_worklogs\s+WHERE document_id = \$1 AND annotation_type = ANY\(\$2\)`).
		WillReturnRows(worklogRows(w))

	out, err := repo.ByDocument(context.Background(), w.DocumentID,
		[]glossary.AnnotationType{glossary.AnnotationOccurrence, glossary.AnnotationDefinition})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, w.Quote, out[0].Quote)
	assert.Equal(t, w.Span, out[0].Span)
}

// passthroughConverter lets non-scalar arguments such as string slices reach
// the mock, the way the pgx driver accepts them.
type passthroughConverter struct{}

func (passthroughConverter) ConvertValue(v interface{}) (driver.Value, error) {
	return v, nil
}

//Personal.AI order the ending
