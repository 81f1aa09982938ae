package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"codepad/internal/language"
	"codepad/internal/model"
	"codepad/internal/repository"
	repoMocks "codepad/internal/repository/mocks"
	"codepad/internal/storage"
	storeMocks "codepad/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestSnippetFilename(t *testing.T) {
	assert.Equal(t, "code_20260102_030405.py", snippetFilename("20260102_030405", 0, ".py"))
	assert.Equal(t, "code_20260102_030405_3.sql", snippetFilename("20260102_030405", 3, ".sql"))
}

func TestSnippetService_Save(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		language   string
		setupMocks func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockSnippetRepository)
		wantKey    string
		wantErrMsg string
	}{
		{
			name:     "happy path",
			language: "Python",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockSnippetRepository) {
				mStore.On("Put", mock.Anything, "code_20260102_030405.py", mock.Anything, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
					return opt.IfNotExists && opt.Size == 8 && opt.Metadata["language"] == "Python"
				})).Return(storage.ObjectInfo{Key: "code_20260102_030405.py", Location: "saved_code/code_20260102_030405.py", Size: 8}, nil)
				mRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *model.Snippet) bool {
					return s.ID != "" && s.Extension == ".py" && s.StoragePath == "saved_code/code_20260102_030405.py"
				})).Return(&model.Snippet{ID: "gen-id", Filename: "code_20260102_030405.py", StoragePath: "saved_code/code_20260102_030405.py"}, nil)
			},
			wantKey: "code_20260102_030405.py",
		},
		{
			name:     "unknown language falls back to txt",
			language: "Brainfuck",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockSnippetRepository) {
				mStore.On("Put", mock.Anything, "code_20260102_030405.txt", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "code_20260102_030405.txt"}, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).
					Return(&model.Snippet{Filename: "code_20260102_030405.txt"}, nil)
			},
			wantKey: "code_20260102_030405.txt",
		},
		{
			name:     "collision picks the next suffix",
			language: "SQL",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockSnippetRepository) {
				mStore.On("Put", mock.Anything, "code_20260102_030405.sql", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, storage.ErrObjectExists).Once()
				mStore.On("Put", mock.Anything, "code_20260102_030405_1.sql", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, storage.ErrObjectExists).Once()
				mStore.On("Put", mock.Anything, "code_20260102_030405_2.sql", mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{Key: "code_20260102_030405_2.sql"}, nil).Once()
				mRepo.On("Create", mock.Anything, mock.Anything).
					Return(&model.Snippet{Filename: "code_20260102_030405_2.sql"}, nil)
			},
			wantKey: "code_20260102_030405_2.sql",
		},
		{
			name:     "storage error",
			language: "C",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockSnippetRepository) {
				mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(storage.ObjectInfo{}, errors.New("permission denied")).Once()
			},
			wantErrMsg: "write snippet: permission denied",
		},
		{
			name:     "repository error with successful rollback",
			language: "Java",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockSnippetRepository) {
				mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key}
					}, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", mock.Anything, "code_20260102_030405.java").Return(nil)
			},
			wantErrMsg: "record snippet: db fail",
		},
		{
			name:     "repository error with failed rollback",
			language: "Java",
			setupMocks: func(mStore *storeMocks.MockStorage, mRepo *repoMocks.MockSnippetRepository) {
				mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return(func(ctx context.Context, key string, r io.Reader, opt storage.PutObjectOptions) storage.ObjectInfo {
						return storage.ObjectInfo{Key: key, Location: "/data/" + key}
					}, nil)
				mRepo.On("Create", mock.Anything, mock.Anything).
					Return(nil, errors.New("db fail"))
				mStore.On("Delete", mock.Anything, mock.Anything).Return(errors.New("delete fail"))
			},
			wantErrMsg: "rollback of /data/code_20260102_030405.java failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mStore := new(storeMocks.MockStorage)
			mRepo := new(repoMocks.MockSnippetRepository)
			svc := NewSnippetService(mStore, mRepo, language.Default(), WithClock(fixedClock), WithLocation(time.UTC))

			tt.setupMocks(mStore, mRepo)

			snip, err := svc.Save(ctx, "print(1)", tt.language)

			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				assert.Nil(t, snip)

				var f *Failure
				require.ErrorAs(t, err, &f)
				assert.Equal(t, KindIO, f.Kind)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantKey, snip.Filename)
			}

			mStore.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestSnippetService_CollisionExhausted(t *testing.T) {
	mStore := new(storeMocks.MockStorage)
	mRepo := new(repoMocks.MockSnippetRepository)
	svc := NewSnippetService(mStore, mRepo, language.Default(), WithClock(fixedClock), WithLocation(time.UTC))

	mStore.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(storage.ObjectInfo{}, storage.ErrObjectExists)

	_, err := svc.Save(context.Background(), "x", "Python")

	assert.ErrorIs(t, err, storage.ErrObjectExists)
	mStore.AssertNumberOfCalls(t, "Put", maxCollisionSuffix+1)
	mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSnippetService_LocalRoundTrip(t *testing.T) {
	root := filepath.Join(t.TempDir(), "saved_code")
	st, err := storage.NewLocal(root)
	require.NoError(t, err)
	svc := NewSnippetService(st, repository.NopSnippetRepository{}, language.Default())

	snip, err := svc.Save(context.Background(), "print(1)", "Python")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^code_\d{8}_\d{6}\.py$`), snip.Filename)
	assert.Equal(t, filepath.Join(root, snip.Filename), snip.StoragePath)
	assert.Equal(t, int64(8), snip.Size)

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, snip.Filename, entries[0].Name())

	b, err := os.ReadFile(snip.StoragePath)
	require.NoError(t, err)
	assert.Equal(t, "print(1)", string(b))
}

func TestSnippetService_SameSecondSavesAreDisambiguated(t *testing.T) {
	root := t.TempDir()
	st, err := storage.NewLocal(root)
	require.NoError(t, err)
	svc := NewSnippetService(st, repository.NopSnippetRepository{}, language.Default(), WithClock(fixedClock), WithLocation(time.UTC))
	ctx := context.Background()

	first, err := svc.Save(ctx, "SELECT 1;", "SQL")
	require.NoError(t, err)
	second, err := svc.Save(ctx, "SELECT 2;", "SQL")
	require.NoError(t, err)

	assert.Equal(t, "code_20260102_030405.sql", first.Filename)
	assert.Equal(t, "code_20260102_030405_1.sql", second.Filename)

	for snip, want := range map[*model.Snippet]string{first: "SELECT 1;", second: "SELECT 2;"} {
		b, err := os.ReadFile(filepath.Join(root, snip.Filename))
		require.NoError(t, err)
		assert.Equal(t, want, string(b))
	}
}

func TestSnippetService_TimestampUsesLocation(t *testing.T) {
	root := t.TempDir()
	st, err := storage.NewLocal(root)
	require.NoError(t, err)
	loc := time.FixedZone("UTC+9", 9*60*60)
	svc := NewSnippetService(st, repository.NopSnippetRepository{}, language.Default(), WithClock(fixedClock), WithLocation(loc))

	snip, err := svc.Save(context.Background(), "body {}", "CSS")
	require.NoError(t, err)

	assert.Equal(t, "code_20260102_120405.css", snip.Filename)
	assert.True(t, strings.HasSuffix(snip.StoragePath, ".css"))
}

func TestSnippetService_UnwritableFolder(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	st, err := storage.NewLocal(filepath.Join(blocker, "saved_code"))
	require.NoError(t, err)
	svc := NewSnippetService(st, repository.NopSnippetRepository{}, language.Default())

	snip, err := svc.Save(context.Background(), "x", "C")

	assert.Nil(t, snip)
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, KindIO, f.Kind)
	assert.Contains(t, f.Message, "create save folder")
}
