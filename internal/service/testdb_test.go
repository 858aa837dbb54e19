package service

import (
	"fmt"
	"strings"
	"testing"

	"bizhood/internal/model"
	"bizhood/internal/repository/mysql"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试一份独立的内存库，跑的是和生产一样的 gorm 仓储代码
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := mysql.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

type repos struct {
	users       *mysql.UserRepository
	communities *mysql.CommunityRepository
	businesses  *mysql.BusinessRepository
	posts       *mysql.PostRepository
	outbox      *mysql.OutboxRepository
}

func newRepos(db *gorm.DB) repos {
	return repos{
		users:       &mysql.UserRepository{DB: db},
		communities: &mysql.CommunityRepository{DB: db},
		businesses:  &mysql.BusinessRepository{DB: db},
		posts:       &mysql.PostRepository{DB: db},
		outbox:      &mysql.OutboxRepository{DB: db},
	}
}

func seedUser(t *testing.T, r repos, deviceID string, enterp, admin bool) *model.User {
	t.Helper()
	user := &model.User{DeviceID: deviceID, Enterp: enterp, Admin: admin}
	if err := r.users.Create(user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedCommunity(t *testing.T, svc *CommunityService, creatorID uint64, name string) *model.Community {
	t.Helper()
	community, err := svc.CreateCommunity(creatorID, name, "a place for "+name, "", name)
	if err != nil {
		t.Fatalf("seed community %s: %v", name, err)
	}
	return community
}
