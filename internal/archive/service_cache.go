package archive

// Cache helpers live here so service.go reads as validation plus storage.

func (s *Service) getCached(pageURL string) (SavedQuiz, bool) {
	value, ok := s.cache.Get(pageURL)
	if !ok {
		return SavedQuiz{}, false
	}
	saved, ok := value.(SavedQuiz)
	return saved, ok
}

func (s *Service) setCached(saved SavedQuiz) {
	s.cache.Add(saved.Metadata.PageURL, saved)
}

func (s *Service) dropCached(pageURL string) {
	s.cache.Remove(pageURL)
}
