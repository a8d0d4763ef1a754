package masterdata

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/TCDevop/otb-planning/internal/domain/dto"
	"github.com/TCDevop/otb-planning/internal/pkg/logger"
	"github.com/TCDevop/otb-planning/internal/pkg/store"
)

type Service struct {
	store store.Store
}

func NewService(store store.Store) *Service {
	return &Service{store: store}
}

// ImportCategoryMaster забирает экспорт мастер-данных категорий:
// индексная страница перечисляет гендерные разделы, каждый раздел
// тянется параллельно и разбирается в плоские строки. Мастер-данные
// заменяются целиком, дерево измерений пересобирается с нуля.
func (s *Service) ImportCategoryMaster(ctx context.Context, baseURL string) ([]*dto.CategoryRowDto, error) {
	doc, err := fetchDocument(ctx, baseURL)
	if err != nil {
		return nil, fmt.Errorf("fetchDocument: %w", err)
	}

	batch := &dto.CategoryBatchDto{}
	eg, egCtx := errgroup.WithContext(ctx)

	doc.Find("table.category-master tbody tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		genderName := strings.TrimSpace(tr.Find("th").Text())
		genderLink := tr.Find("td a")

		href, ok := genderLink.Attr("href")
		if !ok {
			err = fmt.Errorf("couldn't find href for gender %s", genderName)
			return false
		}

		genderID := href[strings.LastIndex(href, "/")+1:]

		eg.Go(func() error {
			rows, parseErr := s.parseGenderSection(egCtx, fmt.Sprintf("%s/%s", baseURL, genderID), genderID, genderName)
			if parseErr != nil {
				return fmt.Errorf("parseGenderSection, gender_id-%s: %w", genderID, parseErr)
			}

			logger.Infof(ctx, "parsed %d category rows for %s", len(rows), genderName)
			batch.Append(rows...)
			return nil
		})

		return true
	})
	if err != nil {
		return nil, err
	}

	if err = eg.Wait(); err != nil {
		return nil, fmt.Errorf("err in goroutine: %w", err)
	}

	rows := batch.Snapshot()
	if err = s.store.ReplaceCategoryRows(ctx, rows); err != nil {
		logger.Errorf(ctx, "store.ReplaceCategoryRows: %s", err.Error())
		return nil, fmt.Errorf("store.ReplaceCategoryRows: %w", err)
	}

	return rows, nil
}

// parseGenderSection разбирает страницу раздела: строки с th[scope=rowgroup]
// открывают категорию, обычные строки — её подкатегории.
func (s *Service) parseGenderSection(ctx context.Context, url, genderID, genderName string) ([]*dto.CategoryRowDto, error) {
	doc, err := fetchDocument(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetchDocument: %w", err)
	}

	rows := make([]*dto.CategoryRowDto, 0, 32)

	var (
		categoryID   string
		categoryName string
	)

	doc.Find("table.category-detail tbody tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		groupHeader := tr.Find("th[scope=rowgroup]")
		if groupHeader.Length() > 0 {
			categoryName = strings.TrimSpace(groupHeader.Text())
			categoryID, _ = groupHeader.Attr("data-id")
			if categoryID == "" {
				err = fmt.Errorf("missing data-id for category %q", categoryName)
				return false
			}

			rows = append(rows, &dto.CategoryRowDto{
				GenderID:     genderID,
				GenderName:   genderName,
				CategoryID:   categoryID,
				CategoryName: categoryName,
				Position:     len(rows),
			})
			return true
		}

		if categoryID == "" {
			// скипаем строки до первой категории
			return true
		}

		subCell := tr.Find("td").First()
		subID, _ := subCell.Attr("data-id")
		subName := strings.TrimSpace(subCell.Text())
		if subID == "" || subName == "" {
			return true
		}

		rows = append(rows, &dto.CategoryRowDto{
			GenderID:        genderID,
			GenderName:      genderName,
			CategoryID:      categoryID,
			CategoryName:    categoryName,
			SubCategoryID:   subID,
			SubCategoryName: subName,
			Position:        len(rows),
		})

		return true
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

func fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	var resp *http.Response

	err := backoff.Retry(
		func() error {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if reqErr != nil {
				return backoff.Permanent(reqErr)
			}

			var httpErr error
			resp, httpErr = http.DefaultClient.Do(req)
			if httpErr != nil {
				return fmt.Errorf("http.Get: %w", httpErr)
			}

			if resp.StatusCode != http.StatusOK {
				resp.Body.Close()
				return fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)
			}

			return nil
		},
		backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(100*time.Millisecond), 5),
			ctx,
		),
	)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("goquery.NewDocumentFromReader: %w", err)
	}

	return doc, nil
}
