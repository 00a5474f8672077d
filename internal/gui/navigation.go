package gui

// updateNavigation disables the buttons at the ends of the element list
func (a *Application) updateNavigation() {
	if a.state.hasPrev() {
		a.prevBtn.Enable()
	} else {
		a.prevBtn.Disable()
	}
	if a.state.hasNext() {
		a.nextBtn.Enable()
	} else {
		a.nextBtn.Disable()
	}
}

func (a *Application) onPrev() {
	if a.state.prev() {
		a.showCurrent()
	}
}

func (a *Application) onNext() {
	if a.state.next() {
		a.showCurrent()
	}
}
