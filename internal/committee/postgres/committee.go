package postgres

import (
	"gorm.io/gorm"

	"github.com/Ujjwols/tender-internproject/internal"
	"github.com/Ujjwols/tender-internproject/internal/committee"
	"github.com/Ujjwols/tender-internproject/internal/user"
)

// CommitteeRepository implements committee.Repository using GORM.
type CommitteeRepository struct {
	db *gorm.DB
}

func NewCommitteeRepository(db *gorm.DB) *CommitteeRepository {
	return &CommitteeRepository{db: db}
}

func (r *CommitteeRepository) Create(c *committee.Committee) error {
	if err := r.db.Create(c).Error; err != nil {
		return err
	}
	r.attachCreators([]*committee.Committee{c})
	return nil
}

func (r *CommitteeRepository) GetByID(id int64) (*committee.Committee, error) {
	var c committee.Committee
	if err := r.db.Where("id = ?", id).First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrCommitteeNotFound
		}
		return nil, err
	}
	r.attachCreators([]*committee.Committee{&c})
	return &c, nil
}

func (r *CommitteeRepository) GetAll() ([]*committee.Committee, error) {
	var committees []*committee.Committee
	if err := r.db.Order("created_at DESC").Find(&committees).Error; err != nil {
		return nil, err
	}
	r.attachCreators(committees)
	return committees, nil
}

func (r *CommitteeRepository) Update(c *committee.Committee) error {
	return r.db.Save(c).Error
}

func (r *CommitteeRepository) Delete(id int64) error {
	return r.db.Delete(&committee.Committee{}, id).Error
}

// attachCreators populates the restricted creator view from the users
// table in a single query. Lookup failures leave the field nil.
func (r *CommitteeRepository) attachCreators(committees []*committee.Committee) {
	if len(committees) == 0 {
		return
	}

	ids := make([]int64, 0, len(committees))
	seen := make(map[int64]bool, len(committees))
	for _, c := range committees {
		if !seen[c.CreatedBy] {
			seen[c.CreatedBy] = true
			ids = append(ids, c.CreatedBy)
		}
	}

	var creators []committee.Creator
	if err := r.db.Model(&user.User{}).
		Select("id", "name", "email", "employee_id").
		Where("id IN ?", ids).
		Find(&creators).Error; err != nil {
		return
	}

	byID := make(map[int64]committee.Creator, len(creators))
	for _, c := range creators {
		byID[c.ID] = c
	}
	for _, c := range committees {
		if creator, ok := byID[c.CreatedBy]; ok {
			cc := creator
			c.Creator = &cc
		}
	}
}
