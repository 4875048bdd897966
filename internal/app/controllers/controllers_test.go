package controllers_test

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ekinkoc/schoolhub/internal/app/controllers"
	"github.com/ekinkoc/schoolhub/internal/app/models"
	"github.com/ekinkoc/schoolhub/internal/app/models/dto"
	"github.com/ekinkoc/schoolhub/internal/app/routes"
	"github.com/ekinkoc/schoolhub/internal/app/services"
	"github.com/ekinkoc/schoolhub/internal/db"
	"github.com/ekinkoc/schoolhub/internal/middleware"
	"github.com/ekinkoc/schoolhub/internal/pkg/apperrors"
	"github.com/ekinkoc/schoolhub/internal/pkg/auth"
	"github.com/ekinkoc/schoolhub/internal/pkg/helpers"
)

// In-memory stores backing the HTTP tests. Handlers run sequentially in
// these tests, so no locking is needed.

type memUsers struct {
	byID   map[int64]*models.User
	nextID int64
}

func newMemUsers() *memUsers { return &memUsers{byID: map[int64]*models.User{}} }

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok || u.IsDeleted {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range m.byID {
		if !u.IsDeleted && u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *memUsers) Update(_ context.Context, u *models.User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) SoftDelete(_ context.Context, _ db.Querier, id int64) error {
	u, ok := m.byID[id]
	if !ok || u.IsDeleted {
		return apperrors.ErrUserNotFound
	}
	u.IsDeleted = true
	return nil
}

func (m *memUsers) Search(_ context.Context, filter dto.UserSearchFilter, p helpers.PageParams) ([]*models.User, int64, error) {
	var out []*models.User
	for _, u := range m.byID {
		if u.IsDeleted {
			continue
		}
		if filter.UserType != "" && string(u.UserType) != filter.UserType {
			continue
		}
		if filter.Name != "" && !strings.Contains(u.Name, filter.Name) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	total := int64(len(out))
	offset, limit := helpers.CalculateOffsetLimit(p.Page, p.Size)
	if int(offset) >= len(out) {
		return nil, total, nil
	}
	end := int(offset) + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (m *memUsers) ExistsByUsername(_ context.Context, username string, excludeID int64) (bool, error) {
	for _, u := range m.byID {
		if !u.IsDeleted && u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, u := range m.byID {
		if !u.IsDeleted && u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) ExistsByPhone(_ context.Context, phone string, excludeID int64) (bool, error) {
	for _, u := range m.byID {
		if !u.IsDeleted && u.Phone == phone && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type memClasses struct {
	byID   map[int64]*models.ClassInfo
	nextID int64
}

func newMemClasses() *memClasses { return &memClasses{byID: map[int64]*models.ClassInfo{}} }

func (m *memClasses) Create(_ context.Context, c *models.ClassInfo) error {
	m.nextID++
	c.ID = m.nextID
	c.StudentCount = 0
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.byID[c.ID] = &cp
	return nil
}

func (m *memClasses) GetByID(_ context.Context, id int64) (*models.ClassInfo, error) {
	c, ok := m.byID[id]
	if !ok || c.IsDeleted {
		return nil, apperrors.ErrClassNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memClasses) Update(_ context.Context, c *models.ClassInfo) error {
	existing, ok := m.byID[c.ID]
	if !ok || existing.IsDeleted {
		return apperrors.ErrClassNotFound
	}
	cp := *c
	cp.StudentCount = existing.StudentCount
	m.byID[c.ID] = &cp
	return nil
}

func (m *memClasses) SoftDelete(_ context.Context, _ db.Querier, id int64) error {
	c, ok := m.byID[id]
	if !ok || c.IsDeleted {
		return apperrors.ErrClassNotFound
	}
	c.IsDeleted = true
	return nil
}

func (m *memClasses) AdjustStudentCount(_ context.Context, _ db.Querier, id int64, delta int) error {
	c, ok := m.byID[id]
	if !ok || c.IsDeleted {
		return apperrors.ErrClassNotFound
	}
	c.StudentCount += delta
	return nil
}

func (m *memClasses) Search(_ context.Context, filter dto.ClassSearchFilter, p helpers.PageParams) ([]*models.ClassInfo, int64, error) {
	var out []*models.ClassInfo
	for _, c := range m.byID {
		if c.IsDeleted {
			continue
		}
		if filter.Grade != "" && (c.Grade == nil || *c.Grade != filter.Grade) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	total := int64(len(out))
	offset, limit := helpers.CalculateOffsetLimit(p.Page, p.Size)
	if int(offset) >= len(out) {
		return nil, total, nil
	}
	end := int(offset) + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (m *memClasses) ExistsByClassCode(_ context.Context, classCode string, excludeID int64) (bool, error) {
	for _, c := range m.byID {
		if !c.IsDeleted && c.ClassCode == classCode && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type memTeacherStudents struct {
	pairs map[[2]int64]*models.TeacherStudentRelation
	users *memUsers
}

func newMemTeacherStudents(users *memUsers) *memTeacherStudents {
	return &memTeacherStudents{pairs: map[[2]int64]*models.TeacherStudentRelation{}, users: users}
}

func (m *memTeacherStudents) Create(_ context.Context, _ db.Querier, r *models.TeacherStudentRelation) error {
	key := [2]int64{r.TeacherID, r.StudentID}
	if _, ok := m.pairs[key]; ok {
		return apperrors.ErrRelationExists
	}
	r.ID = int64(len(m.pairs) + 1)
	cp := *r
	m.pairs[key] = &cp
	return nil
}

func (m *memTeacherStudents) ExistsByPair(_ context.Context, teacherID, studentID int64) (bool, error) {
	_, ok := m.pairs[[2]int64{teacherID, studentID}]
	return ok, nil
}

func (m *memTeacherStudents) DeleteByPair(_ context.Context, _ db.Querier, teacherID, studentID int64) error {
	key := [2]int64{teacherID, studentID}
	if _, ok := m.pairs[key]; !ok {
		return apperrors.ErrRelationNotFound
	}
	delete(m.pairs, key)
	return nil
}

func (m *memTeacherStudents) DeleteByTeacher(_ context.Context, _ db.Querier, teacherID int64) (int64, error) {
	var removed int64
	for key := range m.pairs {
		if key[0] == teacherID {
			delete(m.pairs, key)
			removed++
		}
	}
	return removed, nil
}

func (m *memTeacherStudents) DeleteByStudent(_ context.Context, _ db.Querier, studentID int64) (int64, error) {
	var removed int64
	for key := range m.pairs {
		if key[1] == studentID {
			delete(m.pairs, key)
			removed++
		}
	}
	return removed, nil
}

func (m *memTeacherStudents) GetStudentsByTeacher(ctx context.Context, teacherID int64) ([]*models.User, error) {
	out := make([]*models.User, 0)
	for key := range m.pairs {
		if key[0] != teacherID {
			continue
		}
		if u, err := m.users.GetByID(ctx, key[1]); err == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memTeacherStudents) GetTeachersByStudent(ctx context.Context, studentID int64) ([]*models.User, error) {
	out := make([]*models.User, 0)
	for key := range m.pairs {
		if key[1] != studentID {
			continue
		}
		if u, err := m.users.GetByID(ctx, key[0]); err == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

type memClassStudents struct {
	pairs   map[[2]int64]*models.ClassStudentRelation
	users   *memUsers
	classes *memClasses
}

func newMemClassStudents(users *memUsers, classes *memClasses) *memClassStudents {
	return &memClassStudents{pairs: map[[2]int64]*models.ClassStudentRelation{}, users: users, classes: classes}
}

func (m *memClassStudents) Create(_ context.Context, _ db.Querier, r *models.ClassStudentRelation) error {
	key := [2]int64{r.ClassID, r.StudentID}
	if _, ok := m.pairs[key]; ok {
		return apperrors.ErrRelationExists
	}
	r.ID = int64(len(m.pairs) + 1)
	cp := *r
	m.pairs[key] = &cp
	return nil
}

func (m *memClassStudents) ExistsByPair(_ context.Context, classID, studentID int64) (bool, error) {
	_, ok := m.pairs[[2]int64{classID, studentID}]
	return ok, nil
}

func (m *memClassStudents) DeleteByPair(_ context.Context, _ db.Querier, classID, studentID int64) error {
	key := [2]int64{classID, studentID}
	if _, ok := m.pairs[key]; !ok {
		return apperrors.ErrRelationNotFound
	}
	delete(m.pairs, key)
	return nil
}

func (m *memClassStudents) DeleteByClass(_ context.Context, _ db.Querier, classID int64) (int64, error) {
	var removed int64
	for key := range m.pairs {
		if key[0] == classID {
			delete(m.pairs, key)
			removed++
		}
	}
	return removed, nil
}

func (m *memClassStudents) DeleteByStudent(_ context.Context, _ db.Querier, studentID int64) ([]int64, error) {
	var classIDs []int64
	for key := range m.pairs {
		if key[1] == studentID {
			classIDs = append(classIDs, key[0])
			delete(m.pairs, key)
		}
	}
	return classIDs, nil
}

func (m *memClassStudents) GetStudentsByClass(ctx context.Context, classID int64) ([]*models.User, error) {
	out := make([]*models.User, 0)
	for key := range m.pairs {
		if key[0] != classID {
			continue
		}
		if u, err := m.users.GetByID(ctx, key[1]); err == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memClassStudents) GetClassesByStudent(ctx context.Context, studentID int64) ([]*models.ClassInfo, error) {
	out := make([]*models.ClassInfo, 0)
	for key := range m.pairs {
		if key[1] != studentID {
			continue
		}
		if c, err := m.classes.GetByID(ctx, key[0]); err == nil {
			out = append(out, c)
		}
	}
	return out, nil
}

type memTx struct{}

func (memTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

// apiFixture bundles a fully wired router with direct store access
type apiFixture struct {
	router  *gin.Engine
	users   *memUsers
	classes *memClasses
	jwt     *auth.JWTService
}

func newAPIFixture() *apiFixture {
	gin.SetMode(gin.TestMode)

	users := newMemUsers()
	classes := newMemClasses()
	teacherStudents := newMemTeacherStudents(users)
	classStudents := newMemClassStudents(users, classes)
	tx := memTx{}

	jwtSvc := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: time.Hour,
		TokenIssuer:    "schoolhub-test",
	})

	userSvc := services.NewUserService(users, classes, teacherStudents, classStudents, tx)
	classSvc := services.NewClassService(classes, classStudents, tx)
	relationSvc := services.NewRelationService(users, classes, teacherStudents, classStudents, tx)
	authSvc := services.NewAuthService(users, jwtSvc)

	router := gin.New()
	routes.SetupRouter(router,
		controllers.NewUserController(userSvc),
		controllers.NewClassController(classSvc),
		controllers.NewRelationController(relationSvc),
		controllers.NewAuthController(authSvc),
		middleware.NewAuthMiddleware(jwtSvc),
	)

	return &apiFixture{router: router, users: users, classes: classes, jwt: jwtSvc}
}

func (f *apiFixture) seedUser(username string, userType models.UserType) *models.User {
	hashed, _ := auth.HashPassword("secret123")
	u := &models.User{
		Username: username,
		Password: hashed,
		Name:     "Test " + username,
		Email:    username + "@school.edu",
		Phone:    "1380000" + username,
		UserType: userType,
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func (f *apiFixture) seedClass(code string) *models.ClassInfo {
	c := &models.ClassInfo{ClassCode: code, ClassName: "Class " + code}
	if err := f.classes.Create(context.Background(), c); err != nil {
		panic(err)
	}
	return c
}
