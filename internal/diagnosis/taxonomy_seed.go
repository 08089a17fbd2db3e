package diagnosis

// seedEntries defines the text for every ErrorType.
var seedEntries = []Entry{
	{
		Type:        ErrorBorrow,
		Label:       "Borrow slip",
		Description: "Borrowing went wrong: when the ones digit is too small to subtract from, borrow 1 ten from the tens place.",
		Suggestion:  "Practice borrow subtraction: when the ones digit is too small, take 1 from the tens, add 10 to the ones, then subtract.",
	},
	{
		Type:        ErrorCarry,
		Label:       "Carry slip",
		Description: "Carrying went wrong: when the ones digits add up to 10 or more, carry 1 to the tens place.",
		Suggestion:  "Practice carry addition: when the ones add up to 10 or more, carry 1 to the tens and keep the remainder in the ones.",
	},
	{
		Type:        ErrorCareless,
		Label:       "Careless",
		Description: "A calculation slip; check every step carefully.",
		Suggestion:  "Slow down and work through the problem one step at a time.",
	},
	{
		Type:        ErrorTimeout,
		Label:       "Too slow",
		Description: "Time ran out before the answer was given; work on calculation speed.",
		Suggestion:  "Practice regularly to build speed. Get it right first, then get it fast.",
	},
	{
		Type:        ErrorOperation,
		Label:       "Wrong operation",
		Description: "The wrong operation was used; check whether the problem adds, subtracts, multiplies or divides.",
		Suggestion:  "Read the sign carefully before you start calculating.",
	},
}
