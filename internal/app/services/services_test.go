package services

import (
	"context"
	"sync"

	"github.com/ekinkoc/schoolhub/internal/app/models"
	"github.com/ekinkoc/schoolhub/internal/app/models/dto"
	"github.com/ekinkoc/schoolhub/internal/db"
	"github.com/ekinkoc/schoolhub/internal/pkg/apperrors"
	"github.com/ekinkoc/schoolhub/internal/pkg/helpers"
)

// In-memory store fakes shared by the service tests.

type fakeTxRunner struct{}

func (fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

type fakeUserStore struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.IsDeleted {
			continue
		}
		if u.Username == user.Username {
			return apperrors.ErrUsernameExists
		}
		if u.Email == user.Email {
			return apperrors.ErrEmailExists
		}
		if u.Phone == user.Phone {
			return apperrors.ErrPhoneExists
		}
	}
	f.nextID++
	user.ID = f.nextID
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.IsDeleted {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if !u.IsDeleted && u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.users[user.ID]
	if !ok || existing.IsDeleted {
		return apperrors.ErrUserNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) SoftDelete(_ context.Context, _ db.Querier, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok || u.IsDeleted {
		return apperrors.ErrUserNotFound
	}
	u.IsDeleted = true
	return nil
}

func (f *fakeUserStore) Search(_ context.Context, filter dto.UserSearchFilter, p helpers.PageParams) ([]*models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*models.User
	for _, u := range f.users {
		if u.IsDeleted {
			continue
		}
		if filter.UserType != "" && string(u.UserType) != filter.UserType {
			continue
		}
		cp := *u
		matched = append(matched, &cp)
	}
	total := int64(len(matched))
	offset, limit := helpers.CalculateOffsetLimit(p.Page, p.Size)
	if int(offset) >= len(matched) {
		return nil, total, nil
	}
	end := int(offset) + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeUserStore) ExistsByUsername(_ context.Context, username string, excludeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if !u.IsDeleted && u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if !u.IsDeleted && u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) ExistsByPhone(_ context.Context, phone string, excludeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if !u.IsDeleted && u.Phone == phone && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeClassStore struct {
	mu      sync.Mutex
	classes map[int64]*models.ClassInfo
	nextID  int64
}

func newFakeClassStore() *fakeClassStore {
	return &fakeClassStore{classes: make(map[int64]*models.ClassInfo)}
}

func (f *fakeClassStore) Create(_ context.Context, class *models.ClassInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.classes {
		if !c.IsDeleted && c.ClassCode == class.ClassCode {
			return apperrors.ErrClassCodeExists
		}
	}
	f.nextID++
	class.ID = f.nextID
	class.StudentCount = 0
	cp := *class
	f.classes[class.ID] = &cp
	return nil
}

func (f *fakeClassStore) GetByID(_ context.Context, id int64) (*models.ClassInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.classes[id]
	if !ok || c.IsDeleted {
		return nil, apperrors.ErrClassNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeClassStore) Update(_ context.Context, class *models.ClassInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.classes[class.ID]
	if !ok || existing.IsDeleted {
		return apperrors.ErrClassNotFound
	}
	cp := *class
	cp.StudentCount = existing.StudentCount
	f.classes[class.ID] = &cp
	return nil
}

func (f *fakeClassStore) SoftDelete(_ context.Context, _ db.Querier, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.classes[id]
	if !ok || c.IsDeleted {
		return apperrors.ErrClassNotFound
	}
	c.IsDeleted = true
	return nil
}

func (f *fakeClassStore) AdjustStudentCount(_ context.Context, _ db.Querier, id int64, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.classes[id]
	if !ok || c.IsDeleted {
		return apperrors.ErrClassNotFound
	}
	c.StudentCount += delta
	return nil
}

func (f *fakeClassStore) Search(_ context.Context, filter dto.ClassSearchFilter, p helpers.PageParams) ([]*models.ClassInfo, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*models.ClassInfo
	for _, c := range f.classes {
		if c.IsDeleted {
			continue
		}
		if filter.Grade != "" && (c.Grade == nil || *c.Grade != filter.Grade) {
			continue
		}
		cp := *c
		matched = append(matched, &cp)
	}
	total := int64(len(matched))
	offset, limit := helpers.CalculateOffsetLimit(p.Page, p.Size)
	if int(offset) >= len(matched) {
		return nil, total, nil
	}
	end := int(offset) + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeClassStore) ExistsByClassCode(_ context.Context, classCode string, excludeID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.classes {
		if !c.IsDeleted && c.ClassCode == classCode && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeTeacherStudentStore struct {
	mu        sync.Mutex
	relations []*models.TeacherStudentRelation
	userStore *fakeUserStore
	nextID    int64
}

func newFakeTeacherStudentStore(users *fakeUserStore) *fakeTeacherStudentStore {
	return &fakeTeacherStudentStore{userStore: users}
}

func (f *fakeTeacherStudentStore) Create(_ context.Context, _ db.Querier, relation *models.TeacherStudentRelation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.relations {
		if r.TeacherID == relation.TeacherID && r.StudentID == relation.StudentID {
			return apperrors.ErrRelationExists
		}
	}
	f.nextID++
	relation.ID = f.nextID
	cp := *relation
	f.relations = append(f.relations, &cp)
	return nil
}

func (f *fakeTeacherStudentStore) ExistsByPair(_ context.Context, teacherID, studentID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.relations {
		if r.TeacherID == teacherID && r.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTeacherStudentStore) DeleteByPair(_ context.Context, _ db.Querier, teacherID, studentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.relations {
		if r.TeacherID == teacherID && r.StudentID == studentID {
			f.relations = append(f.relations[:i], f.relations[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrRelationNotFound
}

func (f *fakeTeacherStudentStore) DeleteByTeacher(_ context.Context, _ db.Querier, teacherID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*models.TeacherStudentRelation
	var removed int64
	for _, r := range f.relations {
		if r.TeacherID == teacherID {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	f.relations = kept
	return removed, nil
}

func (f *fakeTeacherStudentStore) DeleteByStudent(_ context.Context, _ db.Querier, studentID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*models.TeacherStudentRelation
	var removed int64
	for _, r := range f.relations {
		if r.StudentID == studentID {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	f.relations = kept
	return removed, nil
}

func (f *fakeTeacherStudentStore) GetStudentsByTeacher(ctx context.Context, teacherID int64) ([]*models.User, error) {
	f.mu.Lock()
	ids := make([]int64, 0)
	for _, r := range f.relations {
		if r.TeacherID == teacherID {
			ids = append(ids, r.StudentID)
		}
	}
	f.mu.Unlock()
	return f.collectUsers(ctx, ids)
}

func (f *fakeTeacherStudentStore) GetTeachersByStudent(ctx context.Context, studentID int64) ([]*models.User, error) {
	f.mu.Lock()
	ids := make([]int64, 0)
	for _, r := range f.relations {
		if r.StudentID == studentID {
			ids = append(ids, r.TeacherID)
		}
	}
	f.mu.Unlock()
	return f.collectUsers(ctx, ids)
}

func (f *fakeTeacherStudentStore) collectUsers(ctx context.Context, ids []int64) ([]*models.User, error) {
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		u, err := f.userStore.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

type fakeClassStudentStore struct {
	mu         sync.Mutex
	relations  []*models.ClassStudentRelation
	userStore  *fakeUserStore
	classStore *fakeClassStore
	nextID     int64
}

func newFakeClassStudentStore(users *fakeUserStore, classes *fakeClassStore) *fakeClassStudentStore {
	return &fakeClassStudentStore{userStore: users, classStore: classes}
}

func (f *fakeClassStudentStore) Create(_ context.Context, _ db.Querier, relation *models.ClassStudentRelation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.relations {
		if r.ClassID == relation.ClassID && r.StudentID == relation.StudentID {
			return apperrors.ErrRelationExists
		}
	}
	f.nextID++
	relation.ID = f.nextID
	cp := *relation
	f.relations = append(f.relations, &cp)
	return nil
}

func (f *fakeClassStudentStore) ExistsByPair(_ context.Context, classID, studentID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.relations {
		if r.ClassID == classID && r.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeClassStudentStore) DeleteByPair(_ context.Context, _ db.Querier, classID, studentID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, r := range f.relations {
		if r.ClassID == classID && r.StudentID == studentID {
			f.relations = append(f.relations[:i], f.relations[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrRelationNotFound
}

func (f *fakeClassStudentStore) DeleteByClass(_ context.Context, _ db.Querier, classID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*models.ClassStudentRelation
	var removed int64
	for _, r := range f.relations {
		if r.ClassID == classID {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	f.relations = kept
	return removed, nil
}

func (f *fakeClassStudentStore) DeleteByStudent(_ context.Context, _ db.Querier, studentID int64) ([]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*models.ClassStudentRelation
	var classIDs []int64
	for _, r := range f.relations {
		if r.StudentID == studentID {
			classIDs = append(classIDs, r.ClassID)
			continue
		}
		kept = append(kept, r)
	}
	f.relations = kept
	return classIDs, nil
}

func (f *fakeClassStudentStore) GetStudentsByClass(ctx context.Context, classID int64) ([]*models.User, error) {
	f.mu.Lock()
	ids := make([]int64, 0)
	for _, r := range f.relations {
		if r.ClassID == classID {
			ids = append(ids, r.StudentID)
		}
	}
	f.mu.Unlock()
	out := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		u, err := f.userStore.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeClassStudentStore) GetClassesByStudent(ctx context.Context, studentID int64) ([]*models.ClassInfo, error) {
	f.mu.Lock()
	ids := make([]int64, 0)
	for _, r := range f.relations {
		if r.StudentID == studentID {
			ids = append(ids, r.ClassID)
		}
	}
	f.mu.Unlock()
	out := make([]*models.ClassInfo, 0, len(ids))
	for _, id := range ids {
		c, err := f.classStore.GetByID(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// testEnv wires a full set of fakes behind the services under test.
type testEnv struct {
	users        *fakeUserStore
	classes      *fakeClassStore
	teacherStuds *fakeTeacherStudentStore
	classStuds   *fakeClassStudentStore
	userSvc      *UserService
	classSvc     *ClassService
	relationSvc  *RelationService
}

func newTestEnv() *testEnv {
	users := newFakeUserStore()
	classes := newFakeClassStore()
	teacherStuds := newFakeTeacherStudentStore(users)
	classStuds := newFakeClassStudentStore(users, classes)
	tx := fakeTxRunner{}
	return &testEnv{
		users:        users,
		classes:      classes,
		teacherStuds: teacherStuds,
		classStuds:   classStuds,
		userSvc:      NewUserService(users, classes, teacherStuds, classStuds, tx),
		classSvc:     NewClassService(classes, classStuds, tx),
		relationSvc:  NewRelationService(users, classes, teacherStuds, classStuds, tx),
	}
}

func (e *testEnv) seedUser(ctx context.Context, username string, userType models.UserType) *models.User {
	u := &models.User{
		Username: username,
		Password: "$2a$12$notarealhash",
		Name:     "Test " + username,
		Email:    username + "@school.edu",
		Phone:    "1380000" + username,
		UserType: userType,
	}
	if err := e.users.Create(ctx, u); err != nil {
		panic(err)
	}
	return u
}

func (e *testEnv) seedClass(ctx context.Context, code string) *models.ClassInfo {
	c := &models.ClassInfo{
		ClassCode: code,
		ClassName: "Class " + code,
	}
	if err := e.classes.Create(ctx, c); err != nil {
		panic(err)
	}
	return c
}
