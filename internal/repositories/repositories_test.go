package repositories_test

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"socialhub/internal/database"
	"socialhub/internal/models"
	"socialhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stores struct {
	users repositories.UserRepository
	posts repositories.PostRepository
}

// storeFactories returns every store implementation under test. MongoDB is
// included when MONGODB_TEST_URI points at a server.
func storeFactories() map[string]func(t *testing.T) stores {
	factories := map[string]func(t *testing.T) stores{
		"memory": func(t *testing.T) stores {
			return stores{
				users: repositories.NewInMemoryUserRepository(),
				posts: repositories.NewInMemoryPostRepository(),
			}
		},
		"gorm-sqlite": func(t *testing.T) stores {
			db, err := database.OpenGORM("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
			require.NoError(t, err)
			t.Cleanup(func() {
				if sqlDB, err := db.DB(); err == nil {
					sqlDB.Close()
				}
			})
			return stores{
				users: repositories.NewGORMUserRepository(db),
				posts: repositories.NewGORMPostRepository(db),
			}
		},
	}
	if uri := os.Getenv("MONGODB_TEST_URI"); uri != "" {
		factories["mongo"] = func(t *testing.T) stores {
			ctx := context.Background()
			client, err := database.ConnectMongo(ctx, uri, 5*time.Second)
			require.NoError(t, err)
			db := client.Database("socialhub_test_" + strings.ReplaceAll(uuid.NewString(), "-", ""))
			t.Cleanup(func() {
				_ = db.Drop(context.Background())
				_ = client.Disconnect(context.Background())
			})

			users := repositories.NewMongoUserRepository(db)
			posts := repositories.NewMongoPostRepository(db)
			require.NoError(t, users.EnsureIndexes(ctx))
			require.NoError(t, posts.EnsureIndexes(ctx))
			return stores{users: users, posts: posts}
		}
	}
	return factories
}

func newUser(id string) *models.User {
	return &models.User{UserID: id, UserName: id, Email: id + "@x.io", Password: "hash"}
}

func TestUserRepository(t *testing.T) {
	for name, open := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			require.NoError(t, s.users.Create(ctx, newUser("u1")))
			require.NoError(t, s.users.Create(ctx, newUser("u2")))

			dup := newUser("u3")
			dup.Email = "u1@x.io"
			assert.ErrorIs(t, s.users.Create(ctx, dup), repositories.ErrEmailExists)

			got, err := s.users.GetByEmail(ctx, "u1@x.io")
			require.NoError(t, err)
			assert.Equal(t, "u1", got.UserID)
			assert.Equal(t, "hash", got.Password)
			assert.NotNil(t, got.Followers)
			assert.NotNil(t, got.Following)

			_, err = s.users.GetByEmail(ctx, "nobody@x.io")
			assert.ErrorIs(t, err, repositories.ErrUserNotFound)
			_, err = s.users.GetByUserID(ctx, "nobody")
			assert.ErrorIs(t, err, repositories.ErrUserNotFound)

			all, err := s.users.GetAll(ctx)
			require.NoError(t, err)
			assert.Len(t, all, 2)
		})
	}
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	for name, open := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			require.NoError(t, s.users.Create(ctx, newUser("u1")))
			require.NoError(t, s.users.Create(ctx, newUser("u2")))

			cover := "https://img/cover.png"
			name := "alice"
			require.NoError(t, s.users.UpdateProfile(ctx, "u1", models.ProfileUpdate{CoverImage: &cover, UserName: &name}))

			got, err := s.users.GetByUserID(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, cover, got.CoverImage)
			assert.Equal(t, "alice", got.UserName)
			assert.Equal(t, "u1@x.io", got.Email)

			taken := "u2@x.io"
			err = s.users.UpdateProfile(ctx, "u1", models.ProfileUpdate{Email: &taken})
			assert.ErrorIs(t, err, repositories.ErrEmailExists)

			err = s.users.UpdateProfile(ctx, "ghost", models.ProfileUpdate{UserName: &name})
			assert.ErrorIs(t, err, repositories.ErrUserNotFound)
		})
	}
}

func TestUserRepository_FollowEdges(t *testing.T) {
	for name, open := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			require.NoError(t, s.users.Create(ctx, newUser("u1")))
			require.NoError(t, s.users.Create(ctx, newUser("u2")))

			// Adding twice leaves a single edge.
			require.NoError(t, s.users.AddFollowEdge(ctx, "u1", "u2"))
			require.NoError(t, s.users.AddFollowEdge(ctx, "u1", "u2"))

			u1, _ := s.users.GetByUserID(ctx, "u1")
			u2, _ := s.users.GetByUserID(ctx, "u2")
			assert.Equal(t, []string{"u2"}, u1.Following)
			assert.Equal(t, []string{"u1"}, u2.Followers)

			require.NoError(t, s.users.RemoveFollowEdge(ctx, "u1", "u2"))
			require.NoError(t, s.users.RemoveFollowEdge(ctx, "u1", "u2"))

			u1, _ = s.users.GetByUserID(ctx, "u1")
			u2, _ = s.users.GetByUserID(ctx, "u2")
			assert.Empty(t, u1.Following)
			assert.Empty(t, u2.Followers)

			assert.ErrorIs(t, s.users.AddFollowEdge(ctx, "u1", "ghost"), repositories.ErrUserNotFound)
			u1, _ = s.users.GetByUserID(ctx, "u1")
			assert.Empty(t, u1.Following, "a failed edge leaves no half behind")
		})
	}
}

func TestUserRepository_FailedEdgeKeepsExistingHalf(t *testing.T) {
	for name, open := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			// u1 already lists a followee whose document is gone.
			u1 := newUser("u1")
			u1.Following = []string{"ghost"}
			require.NoError(t, s.users.Create(ctx, u1))

			err := s.users.AddFollowEdge(ctx, "u1", "ghost")
			assert.ErrorIs(t, err, repositories.ErrUserNotFound)

			got, err := s.users.GetByUserID(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, []string{"ghost"}, got.Following)
		})
	}
}

func TestPostRepository(t *testing.T) {
	for name, open := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

			require.NoError(t, s.posts.Create(ctx, &models.Post{PostID: "p1", UserID: "u1", Name: "n", Content: "c", CreatedAt: base}))
			require.NoError(t, s.posts.Create(ctx, &models.Post{PostID: "p2", UserID: "u1", Name: "n", Content: "c", CreatedAt: base.Add(time.Hour), LikeCount: 7}))
			require.NoError(t, s.posts.Create(ctx, &models.Post{PostID: "p3", UserID: "u2", Name: "n", Content: "c"}))

			err := s.posts.Create(ctx, &models.Post{PostID: "p1", UserID: "u2", Name: "n", Content: "c"})
			assert.ErrorIs(t, err, repositories.ErrPostExists)

			posts, err := s.posts.GetByUserID(ctx, "u1")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"p1", "p2"}, []string{posts[0].PostID, posts[1].PostID})

			got, err := s.posts.GetByPostID(ctx, "p2")
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, 7, got[0].LikeCount)
			assert.NotNil(t, got[0].LikedBy)

			got, err = s.posts.GetByPostID(ctx, "missing")
			require.NoError(t, err)
			assert.Empty(t, got)

			// Delete filters on the author as well as the post.
			assert.ErrorIs(t, s.posts.Delete(ctx, "p1", "u2"), repositories.ErrPostNotFound)
			require.NoError(t, s.posts.Delete(ctx, "p1", "u1"))
			assert.ErrorIs(t, s.posts.Delete(ctx, "p1", "u1"), repositories.ErrPostNotFound)
		})
	}
}

func TestPostRepository_ToggleLike(t *testing.T) {
	for name, open := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			require.NoError(t, s.posts.Create(ctx, &models.Post{PostID: "p1", UserID: "u1", Name: "n", Content: "c"}))

			before, err := s.posts.ToggleLike(ctx, "p1", "u2")
			require.NoError(t, err)
			assert.Empty(t, before.LikedBy)

			before, err = s.posts.ToggleLike(ctx, "p1", "u3")
			require.NoError(t, err)
			assert.Equal(t, []string{"u2"}, before.LikedBy)

			before, err = s.posts.ToggleLike(ctx, "p1", "u2")
			require.NoError(t, err)
			assert.Equal(t, []string{"u2", "u3"}, before.LikedBy)

			after, _ := s.posts.GetByPostID(ctx, "p1")
			assert.Equal(t, []string{"u3"}, after[0].LikedBy)

			_, err = s.posts.ToggleLike(ctx, "missing", "u2")
			assert.ErrorIs(t, err, repositories.ErrPostNotFound)
		})
	}
}

func TestPostRepository_ConcurrentLikesKeepSetSemantics(t *testing.T) {
	for name, open := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			require.NoError(t, s.posts.Create(ctx, &models.Post{PostID: "p1", UserID: "u1", Name: "n", Content: "c"}))

			users := []string{"a", "b", "c", "d", "e", "f"}
			var wg sync.WaitGroup
			for _, u := range users {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, err := s.posts.ToggleLike(ctx, "p1", u)
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			after, err := s.posts.GetByPostID(ctx, "p1")
			require.NoError(t, err)
			assert.ElementsMatch(t, users, after[0].LikedBy)
		})
	}
}
