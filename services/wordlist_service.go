package services

import (
	"wordclash/models"

	"gorm.io/gorm"
)

// WordListService manages teacher-owned vocabulary lists.
type WordListService struct {
	db *gorm.DB
}

func NewWordListService(db *gorm.DB) *WordListService {
	return &WordListService{db: db}
}

type CreateWordListRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Words       []CreateWordRequest `json:"words" binding:"required,min=1"`
}

type CreateWordRequest struct {
	English         string `json:"english" binding:"required"`
	Hebrew          string `json:"hebrew"`
	ExampleSentence string `json:"example_sentence"`
	Difficulty      string `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Order           int    `json:"order" binding:"required"`
}

type UpdateWordListRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Words       []CreateWordRequest `json:"words"`
}

func (s *WordListService) CreateWordList(userID uint, req *CreateWordListRequest) (*models.WordList, error) {
	// Start transaction
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	list := models.WordList{
		Title:       req.Title,
		Description: req.Description,
		UserID:      userID,
	}

	if err := tx.Create(&list).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := createWords(tx, list.ID, req.Words); err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.GetWordListByID(list.ID, userID)
}

func (s *WordListService) GetUserWordLists(userID uint) ([]models.WordList, error) {
	var lists []models.WordList
	err := s.db.Where("user_id = ?", userID).
		Preload("Words", func(db *gorm.DB) *gorm.DB {
			return db.Order("words.order")
		}).
		Order("created_at DESC").
		Find(&lists).Error
	return lists, err
}

func (s *WordListService) GetWordListByID(listID uint, userID uint) (*models.WordList, error) {
	var list models.WordList
	err := s.db.Where("id = ? AND user_id = ?", listID, userID).
		Preload("Words", func(db *gorm.DB) *gorm.DB {
			return db.Order("words.order")
		}).
		First(&list).Error
	if err != nil {
		return nil, ErrWordListNotFound
	}
	return &list, nil
}

func (s *WordListService) UpdateWordList(listID uint, userID uint, req *UpdateWordListRequest) (*models.WordList, error) {
	list, err := s.GetWordListByID(listID, userID)
	if err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if req.Title != "" {
		list.Title = req.Title
	}
	if req.Description != "" {
		list.Description = req.Description
	}

	if err := tx.Save(list).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	// If words are provided, replace the whole set
	if req.Words != nil {
		if err := tx.Where("word_list_id = ?", listID).Delete(&models.Word{}).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		if err := createWords(tx, list.ID, req.Words); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return s.GetWordListByID(list.ID, userID)
}

func (s *WordListService) DeleteWordList(listID uint, userID uint) error {
	_, err := s.GetWordListByID(listID, userID)
	if err != nil {
		return err
	}

	return s.db.Delete(&models.WordList{}, listID).Error
}

func createWords(tx *gorm.DB, listID uint, words []CreateWordRequest) error {
	for _, wReq := range words {
		if wReq.Hebrew == "" {
			return ErrMissingTranslation
		}

		word := models.Word{
			WordListID:      listID,
			English:         wReq.English,
			Hebrew:          wReq.Hebrew,
			ExampleSentence: wReq.ExampleSentence,
			Difficulty:      wReq.Difficulty,
			Order:           wReq.Order,
		}

		if err := tx.Create(&word).Error; err != nil {
			return err
		}
	}
	return nil
}
