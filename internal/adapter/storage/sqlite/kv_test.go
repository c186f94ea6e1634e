package sqlite_test

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	. "daycheck/pkg/test"

	"daycheck/internal/adapter/storage/sqlite"
	"daycheck/internal/core/port"
)

var ctx = context.Background()

type SqliteKVSuite struct {
	suite.Suite
	DB *sqlite.DB
	KV port.KVStore
}

func (s *SqliteKVSuite) SetupSuite() {
	s.DB = InitTestDB()
	s.KV = sqlite.NewKVStore(s.DB)
}

func (s *SqliteKVSuite) TearDownTest() {
	CleanDB(s.T(), s.DB.DB)
}

func (s *SqliteKVSuite) TearDownSuite() {
	s.DB.Close()
}

func TestSqliteKVSuite(t *testing.T) {
	RegisterTestingT(t)

	suite.Run(t, new(SqliteKVSuite))
}

func (s *SqliteKVSuite) TestSetAndGet() {
	Expect(s.KV.Set(ctx, "daycheck:tasks", []byte(`[{"title":"Stretch"}]`))).To(Succeed())

	value, err := s.KV.Get(ctx, "daycheck:tasks")

	Expect(err).To(BeNil())
	Expect(value).To(Equal([]byte(`[{"title":"Stretch"}]`)))
}

func (s *SqliteKVSuite) TestGet_MissingKey() {
	value, err := s.KV.Get(ctx, "daycheck:nope")

	Expect(err).To(BeNil())
	Expect(value).To(BeNil())
}

func (s *SqliteKVSuite) TestSet_UpsertsExistingKey() {
	Expect(s.KV.Set(ctx, "k", []byte("old"))).To(Succeed())
	Expect(s.KV.Set(ctx, "k", []byte("new"))).To(Succeed())

	value, err := s.KV.Get(ctx, "k")

	Expect(err).To(BeNil())
	Expect(value).To(Equal([]byte("new")))

	var count int
	err = s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv_entries WHERE key = ?", "k").Scan(&count)

	Expect(err).To(BeNil())
	Expect(count).To(Equal(1))
}

func (s *SqliteKVSuite) TestDelete() {
	Expect(s.KV.Set(ctx, "k", []byte("v"))).To(Succeed())
	Expect(s.KV.Delete(ctx, "k")).To(Succeed())

	value, err := s.KV.Get(ctx, "k")

	Expect(err).To(BeNil())
	Expect(value).To(BeNil())
}

func (s *SqliteKVSuite) TestCleanDBEmptiesEntries() {
	Expect(s.KV.Set(ctx, "k", []byte("v"))).To(Succeed())

	CleanDB(s.T(), s.DB.DB)

	value, err := s.KV.Get(ctx, "k")

	Expect(err).To(BeNil())
	Expect(value).To(BeNil())
}

func (s *SqliteKVSuite) TestKeysAreIsolated() {
	Expect(s.KV.Set(ctx, "a", []byte("1"))).To(Succeed())
	Expect(s.KV.Set(ctx, "b", []byte("2"))).To(Succeed())
	Expect(s.KV.Delete(ctx, "a")).To(Succeed())

	value, err := s.KV.Get(ctx, "b")

	Expect(err).To(BeNil())
	Expect(value).To(Equal([]byte("2")))
}
