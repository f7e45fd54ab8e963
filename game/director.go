package game

type Director interface {
	/**
	 * Pick the next action to perform on the board, or report false when
	 * there is nothing left to do
	 */
	Next(board *Board) (Action, bool)
}
